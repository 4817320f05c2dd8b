// Package seed fills a database with the reference categories, the default
// accounts and optionally generated demo recipes.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/service"
	"github.com/pageza/savorly/backend/internal/types"
)

// Categories are the reference categories shipped with the application
var Categories = []models.Category{
	{Name: "Reggeli", Slug: "reggeli"},
	{Name: "Ebéd", Slug: "ebed"},
	{Name: "Vacsora", Slug: "vacsora"},
	{Name: "Desszert", Slug: "desszert"},
	{Name: "Leves", Slug: "leves"},
	{Name: "Főétel", Slug: "foetel"},
	{Name: "Egytálétel", Slug: "egytaletel"},
	{Name: "Könnyű", Slug: "konnyu"},
	{Name: "Vegetáriánus", Slug: "vegetarianus"},
	{Name: "Indiai", Slug: "indiai"},
	{Name: "Olasz", Slug: "olasz"},
	{Name: "Előétel", Slug: "eloetel"},
	{Name: "Tészta", Slug: "teszta"},
}

type account struct {
	username string
	email    string
	password string
	role     models.Role
}

var accounts = []account{
	{username: "admin", email: "admin@savorly.local", password: "admin123", role: models.RoleAdmin},
	{username: "user", email: "user@savorly.local", password: "user123", role: models.RoleUser},
}

// Options controls what Run generates
type Options struct {
	// Recipes is the number of fake recipes to add for the default user
	Recipes int
	// FakerSeed makes generated recipes reproducible; 0 picks a random seed
	FakerSeed int64
}

// Result counts the rows Run created
type Result struct {
	Categories int
	Users      int
	Recipes    int
}

// Run seeds the database. Categories and accounts that already exist are
// left untouched, so running it twice is safe.
func Run(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	var res Result

	categoryIDs := make([]uint, 0, len(Categories))
	for _, c := range Categories {
		category, created, err := ensureCategory(ctx, db, c)
		if err != nil {
			return res, err
		}
		if created {
			res.Categories++
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	users := make(map[string]models.User, len(accounts))
	for _, a := range accounts {
		user, created, err := ensureAccount(ctx, db, a)
		if err != nil {
			return res, err
		}
		if created {
			res.Users++
		}
		users[a.username] = user
	}

	if opts.Recipes > 0 {
		owner := users["user"]
		actor := types.Actor{UserID: owner.ID, Username: owner.Username, Role: owner.Role}
		catalog := service.NewCatalogService(db)
		faker := gofakeit.New(opts.FakerSeed)

		for i := 0; i < opts.Recipes; i++ {
			if _, err := catalog.Create(ctx, actor, fakeRecipe(faker, categoryIDs)); err != nil {
				return res, fmt.Errorf("failed to seed recipe: %w", err)
			}
			res.Recipes++
		}
	}

	log.Info().
		Int("categories", res.Categories).
		Int("users", res.Users).
		Int("recipes", res.Recipes).
		Msg("seed complete")
	return res, nil
}

func ensureCategory(ctx context.Context, db *gorm.DB, c models.Category) (models.Category, bool, error) {
	var category models.Category
	err := db.WithContext(ctx).Where("name = ?", c.Name).First(&category).Error
	if err == nil {
		return category, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return category, false, fmt.Errorf("failed to look up category %s: %w", c.Name, err)
	}

	category = models.Category{Name: c.Name, Slug: c.Slug}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return category, false, fmt.Errorf("failed to seed category %s: %w", c.Name, err)
	}
	return category, true, nil
}

func ensureAccount(ctx context.Context, db *gorm.DB, a account) (models.User, bool, error) {
	var user models.User
	err := db.WithContext(ctx).Where("username = ?", a.username).First(&user).Error
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, fmt.Errorf("failed to look up %s: %w", a.username, err)
	}

	hashed, err := service.HashPassword(a.password)
	if err != nil {
		return user, false, err
	}
	user = models.User{
		Username:     a.username,
		Email:        a.email,
		PasswordHash: hashed,
		Role:         a.role,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return user, false, fmt.Errorf("failed to create %s: %w", a.username, err)
	}
	return user, true, nil
}

func fakeRecipe(faker *gofakeit.Faker, categoryIDs []uint) types.RecipeRequest {
	prep := faker.Number(5, 120)

	ingredients := make([]string, faker.Number(3, 8))
	for i := range ingredients {
		if faker.Bool() {
			ingredients[i] = fmt.Sprintf("%d g %s", faker.Number(10, 500), faker.Vegetable())
		} else {
			ingredients[i] = fmt.Sprintf("%d %s", faker.Number(1, 6), faker.Fruit())
		}
	}

	steps := make([]string, faker.Number(2, 6))
	for i := range steps {
		steps[i] = faker.Sentence(8)
	}

	var allergens []string
	if faker.Bool() {
		allergens = []string{faker.RandomString([]string{"gluten", "laktóz", "tojás", "dió", "szója"})}
	}

	var picked []uint
	if len(categoryIDs) > 0 {
		picked = []uint{
			categoryIDs[faker.Number(0, len(categoryIDs)-1)],
			categoryIDs[faker.Number(0, len(categoryIDs)-1)],
		}
	}

	return types.RecipeRequest{
		Title:           faker.Dinner(),
		Description:     faker.Paragraph(1, 2, 12, " "),
		Instructions:    steps,
		Ingredients:     ingredients,
		Allergens:       allergens,
		PrepTimeMinutes: &prep,
		Difficulty:      faker.RandomString([]string{"Könnyű", "Közepes", "Nehéz"}),
		ImageURL:        fmt.Sprintf("https://picsum.photos/seed/%s/800/600", faker.UUID()),
		Servings:        faker.Number(1, 6),
		IsVegan:         faker.Bool(),
		CategoryIDs:     picked,
	}
}
