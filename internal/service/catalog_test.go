package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/service"
	"github.com/pageza/savorly/backend/internal/testhelpers"
	"github.com/pageza/savorly/backend/internal/types"
)

type catalogFixture struct {
	db      *gorm.DB
	catalog *service.CatalogService
	owner   types.Actor
	other   types.Actor
	admin   types.Actor
}

func setupCatalogTest(t *testing.T) catalogFixture {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	return catalogFixture{
		db:      db,
		catalog: service.NewCatalogService(db),
		owner:   testhelpers.ActorFor(testhelpers.CreateUser(t, db, "owner", models.RoleUser)),
		other:   testhelpers.ActorFor(testhelpers.CreateUser(t, db, "other", models.RoleUser)),
		admin:   testhelpers.ActorFor(testhelpers.CreateUser(t, db, "admin", models.RoleAdmin)),
	}
}

func (f catalogFixture) setLikes(t *testing.T, id uint, likes int) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Recipe{}).Where("id = ?", id).UpdateColumn("likes", likes).Error)
}

func (f catalogFixture) linkCount(t *testing.T, recipeID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.RecipeCategory{}).Where("recipe_id = ?", recipeID).Count(&count).Error)
	return count
}

func TestCatalogCreateAndGet(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	dessert := testhelpers.CreateCategory(t, f.db, "Dessert")

	created, err := f.catalog.Create(ctx, f.owner, types.RecipeRequest{
		Title:       "Cake",
		CategoryIDs: []uint{dessert.ID},
		Ingredients: []string{"flour", "sugar"},
	})
	require.NoError(t, err)

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cake", got.Title)
	assert.Equal(t, []string{"Dessert"}, got.Categories)
	assert.Equal(t, []uint{dessert.ID}, got.CategoryIDs)
	assert.Equal(t, []string{"flour", "sugar"}, got.Ingredients)
	assert.Equal(t, []string{}, got.Instructions)
	assert.Equal(t, 0, got.Likes)
	assert.Equal(t, 1, got.Servings)
	assert.Equal(t, "owner", got.AuthorName)
	require.NotNil(t, got.UserID)
	assert.Equal(t, f.owner.UserID, *got.UserID)
}

func TestCatalogCreateDeduplicatesCategories(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	a := testhelpers.CreateCategory(t, f.db, "Leves")
	b := testhelpers.CreateCategory(t, f.db, "Olasz")

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe(b.ID, a.ID, b.ID, a.ID))
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint{a.ID, b.ID}, created.CategoryIDs)
	assert.Equal(t, int64(2), f.linkCount(t, created.ID))
}

func TestCatalogCreateRejectsAnonymous(t *testing.T) {
	f := setupCatalogTest(t)

	_, err := f.catalog.Create(context.Background(), types.Actor{}, testhelpers.FakeRecipe())
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCatalogCreateRejectsUnknownUser(t *testing.T) {
	f := setupCatalogTest(t)

	_, err := f.catalog.Create(context.Background(), types.Actor{UserID: 9999, Role: models.RoleUser}, testhelpers.FakeRecipe())
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestCatalogRejectsDeactivatedAccount(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	users := service.NewUserService(f.db, f.catalog)

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)

	active, err := users.ToggleStatus(ctx, f.admin, f.owner.UserID)
	require.NoError(t, err)
	require.False(t, active)

	_, err = f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	assert.ErrorIs(t, err, service.ErrAccountDisabled)
	assert.ErrorIs(t, f.catalog.Update(ctx, f.owner, created.ID, testhelpers.FakeRecipe()), service.ErrAccountDisabled)
	assert.ErrorIs(t, f.catalog.SetImage(ctx, f.owner, created.ID, "https://img.example/x.png"), service.ErrAccountDisabled)
	assert.ErrorIs(t, f.catalog.Delete(ctx, f.owner, created.ID), service.ErrAccountDisabled)

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Administrators still manage the recipe
	require.NoError(t, f.catalog.Update(ctx, f.admin, created.ID, testhelpers.FakeRecipe()))

	_, err = users.ToggleStatus(ctx, f.admin, f.owner.UserID)
	require.NoError(t, err)
	_, err = f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	assert.NoError(t, err)
}

func TestCatalogCreateValidation(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	negative := -5

	tests := []struct {
		name string
		req  types.RecipeRequest
	}{
		{name: "blank title", req: types.RecipeRequest{Title: "   "}},
		{name: "negative prep time", req: types.RecipeRequest{Title: "Soup", PrepTimeMinutes: &negative}},
		{name: "negative servings", req: types.RecipeRequest{Title: "Soup", Servings: -1}},
		{name: "unknown category", req: types.RecipeRequest{Title: "Soup", CategoryIDs: []uint{424242}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.Create(ctx, f.owner, tt.req)
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "failed creates must not leave recipes behind")
}

func TestCatalogUpdateReplacesCategories(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	a := testhelpers.CreateCategory(t, f.db, "A")
	b := testhelpers.CreateCategory(t, f.db, "B")
	c := testhelpers.CreateCategory(t, f.db, "C")

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe(a.ID, b.ID))
	require.NoError(t, err)

	req := testhelpers.FakeRecipe(b.ID, c.ID, c.ID)
	req.Title = "Renamed"
	require.NoError(t, f.catalog.Update(ctx, f.owner, created.ID, req))

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.ElementsMatch(t, []uint{b.ID, c.ID}, got.CategoryIDs)
	assert.ElementsMatch(t, []string{"B", "C"}, got.Categories)
	assert.Equal(t, int64(2), f.linkCount(t, created.ID))
}

func TestCatalogUpdateClearsCategories(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	a := testhelpers.CreateCategory(t, f.db, "A")

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe(a.ID))
	require.NoError(t, err)

	require.NoError(t, f.catalog.Update(ctx, f.owner, created.ID, testhelpers.FakeRecipe()))
	assert.Zero(t, f.linkCount(t, created.ID))
}

func TestCatalogUpdateKeepsLikes(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)
	f.setLikes(t, created.ID, 7)

	require.NoError(t, f.catalog.Update(ctx, f.owner, created.ID, testhelpers.FakeRecipe()))

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Likes)
}

func TestCatalogUpdateUnknownCategoryLeavesRecipeUnchanged(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	a := testhelpers.CreateCategory(t, f.db, "A")

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe(a.ID))
	require.NoError(t, err)

	req := testhelpers.FakeRecipe(a.ID, 31337)
	req.Title = "Changed"
	err = f.catalog.Update(ctx, f.owner, created.ID, req)
	assert.ErrorIs(t, err, service.ErrValidation)

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, []uint{a.ID}, got.CategoryIDs)
}

func TestCatalogUpdateAuthorization(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)

	req := testhelpers.FakeRecipe()
	req.Title = "Hijacked"

	err = f.catalog.Update(ctx, f.other, created.ID, req)
	assert.ErrorIs(t, err, service.ErrForbidden)

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Ingredients, got.Ingredients)

	err = f.catalog.Update(ctx, types.Actor{}, created.ID, req)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	req.Title = "Moderated"
	require.NoError(t, f.catalog.Update(ctx, f.admin, created.ID, req))
	got, err = f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moderated", got.Title)
}

func TestCatalogUpdateNotFound(t *testing.T) {
	f := setupCatalogTest(t)

	err := f.catalog.Update(context.Background(), f.owner, 404, testhelpers.FakeRecipe())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogDelete(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	a := testhelpers.CreateCategory(t, f.db, "A")

	kept, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe(a.ID))
	require.NoError(t, err)
	removed, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe(a.ID))
	require.NoError(t, err)

	require.NoError(t, f.catalog.Delete(ctx, f.owner, removed.ID))

	_, err = f.catalog.Get(ctx, removed.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Zero(t, f.linkCount(t, removed.ID))

	list, err := f.catalog.List(ctx, types.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)

	err = f.catalog.Delete(ctx, f.owner, removed.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogDeleteAuthorization(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)

	assert.ErrorIs(t, f.catalog.Delete(ctx, types.Actor{}, created.ID), service.ErrUnauthenticated)
	assert.ErrorIs(t, f.catalog.Delete(ctx, f.other, created.ID), service.ErrForbidden)

	_, err = f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.catalog.Delete(ctx, f.admin, created.ID))
}

func TestCatalogLikeUnlike(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)

	for _, start := range []int{0, 1, 12} {
		f.setLikes(t, created.ID, start)

		liked, err := f.catalog.Like(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, start+1, liked)

		unliked, err := f.catalog.Unlike(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, start, unliked)
	}
}

func TestCatalogUnlikeFloorsAtZero(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)
	f.setLikes(t, created.ID, 5)

	likes, err := f.catalog.Unlike(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, likes)

	for i := 0; i < 5; i++ {
		likes, err = f.catalog.Unlike(ctx, created.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, likes)

	likes, err = f.catalog.Like(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)
}

func TestCatalogLikeMissingRecipe(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	_, err := f.catalog.Like(ctx, 77)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.catalog.Unlike(ctx, 77)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogConcurrentLikes(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.catalog.Like(ctx, created.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("like failed: %v", err)
	}

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.Likes)
}

func TestCatalogMalformedListColumns(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe())
	require.NoError(t, err)
	require.NoError(t, f.db.Exec(
		"UPDATE recipes SET ingredients = ?, instructions = ?, allergens = NULL WHERE id = ?",
		"flour, sugar", "{not json", created.ID,
	).Error)

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Ingredients)
	assert.Equal(t, []string{}, got.Instructions)
	assert.Equal(t, []string{}, got.Allergens)

	list, err := f.catalog.List(ctx, types.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{}, list[0].Ingredients)
}

func TestCatalogList(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	soups := testhelpers.CreateCategory(t, f.db, "Leves")
	pasta := testhelpers.CreateCategory(t, f.db, "Tészta")

	create := func(title string, vegan bool, allergens []string, likes int, categoryIDs ...uint) uint {
		req := testhelpers.FakeRecipe(categoryIDs...)
		req.Title = title
		req.Description = "Plain"
		req.IsVegan = vegan
		req.Allergens = allergens
		created, err := f.catalog.Create(ctx, f.owner, req)
		require.NoError(t, err)
		f.setLikes(t, created.ID, likes)
		return created.ID
	}

	tomato := create("Tomato soup", true, nil, 3, soups.ID)
	carbonara := create("Carbonara", false, []string{"gluten", "egg"}, 10, pasta.ID)
	lentil := create("Lentil soup", true, []string{"celery"}, 1, soups.ID)
	require.NoError(t, f.db.Exec("UPDATE recipes SET allergens = NULL WHERE id = ?", tomato).Error)

	ids := func(list []types.RecipeSummary) []uint {
		out := make([]uint, len(list))
		for i, r := range list {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name   string
		filter types.RecipeFilter
		want   []uint
	}{
		{name: "newest first by default", filter: types.RecipeFilter{}, want: []uint{lentil, carbonara, tomato}},
		{name: "oldest", filter: types.RecipeFilter{Sort: types.SortOldest}, want: []uint{tomato, carbonara, lentil}},
		{name: "popular", filter: types.RecipeFilter{Sort: types.SortPopular}, want: []uint{carbonara, tomato, lentil}},
		{name: "category slug", filter: types.RecipeFilter{Category: "leves"}, want: []uint{lentil, tomato}},
		{name: "query is case insensitive", filter: types.RecipeFilter{Query: "SOUP"}, want: []uint{lentil, tomato}},
		{name: "vegan only", filter: types.RecipeFilter{VeganOnly: true, Sort: types.SortOldest}, want: []uint{tomato, lentil}},
		{name: "exclude allergens", filter: types.RecipeFilter{ExcludeAllergens: []string{"Gluten", " "}}, want: []uint{lentil, tomato}},
		{name: "exclude allergens keeps null column", filter: types.RecipeFilter{ExcludeAllergens: []string{"celery"}}, want: []uint{carbonara, tomato}},
		{name: "allergen wildcards are literal", filter: types.RecipeFilter{ExcludeAllergens: []string{"%"}}, want: []uint{lentil, carbonara, tomato}},
		{name: "allergen underscore is literal", filter: types.RecipeFilter{ExcludeAllergens: []string{"glu_en"}}, want: []uint{lentil, carbonara, tomato}},
		{name: "query wildcards are literal", filter: types.RecipeFilter{Query: "%"}, want: []uint{}},
		{name: "limit and offset", filter: types.RecipeFilter{Limit: 1, Offset: 1}, want: []uint{carbonara}},
		{name: "owner", filter: types.RecipeFilter{UserID: &f.other.UserID}, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.catalog.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(list))
		})
	}

	_, err := f.catalog.List(ctx, types.RecipeFilter{Sort: "random"})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCatalogListAccentedQuery(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()

	req := testhelpers.FakeRecipe()
	req.Title = "TÉSZTA SALÁTA"
	req.Description = "Nyári ÉTEL"
	created, err := f.catalog.Create(ctx, f.owner, req)
	require.NoError(t, err)

	for _, q := range []string{"tészta", "Saláta", "étel"} {
		list, err := f.catalog.List(ctx, types.RecipeFilter{Query: q})
		require.NoError(t, err)
		require.Len(t, list, 1, "q=%s", q)
		assert.Equal(t, created.ID, list[0].ID)
	}
}

func TestCatalogDeletingCategoryKeepsRecipes(t *testing.T) {
	f := setupCatalogTest(t)
	ctx := context.Background()
	a := testhelpers.CreateCategory(t, f.db, "A")
	b := testhelpers.CreateCategory(t, f.db, "B")

	created, err := f.catalog.Create(ctx, f.owner, testhelpers.FakeRecipe(a.ID, b.ID))
	require.NoError(t, err)

	require.NoError(t, service.NewCategoryService(f.db).Delete(ctx, f.admin, a.ID))

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, got.CategoryIDs)
}
