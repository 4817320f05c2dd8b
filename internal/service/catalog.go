package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/savorly/backend/internal/metrics"
	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/types"
)

// mutableRecipeColumns are the columns an update overwrites. Likes are only
// written by Like and Unlike.
var mutableRecipeColumns = []string{
	"title", "description", "instructions", "ingredients", "allergens",
	"prep_time_minutes", "difficulty", "image_url", "servings", "is_vegan",
}

// CatalogService owns recipes and their category associations
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// List returns recipe summaries matching the filter
func (s *CatalogService) List(ctx context.Context, filter types.RecipeFilter) ([]types.RecipeSummary, error) {
	if !filter.Sort.Valid() {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrValidation, filter.Sort)
	}

	query := s.db.WithContext(ctx).
		Preload("User").
		Preload("RecipeCategories.Category")

	if filter.UserID != nil {
		query = query.Where("recipes.user_id = ?", *filter.UserID)
	}
	if filter.Category != "" {
		inCategory := s.db.Table("recipe_categories").
			Select("recipe_categories.recipe_id").
			Joins("JOIN categories ON categories.id = recipe_categories.category_id").
			Where("categories.slug = ?", filter.Category)
		query = query.Where("recipes.id IN (?)", inCategory)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(`(LOWER(recipes.title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(recipes.description, '')) LIKE ? ESCAPE '\')`, like, like)
	}
	if filter.VeganOnly {
		query = query.Where("recipes.is_vegan = ?", true)
	}
	for _, allergen := range filter.ExcludeAllergens {
		allergen = strings.ToLower(strings.TrimSpace(allergen))
		if allergen == "" {
			continue
		}
		// NULL and malformed columns decode as no allergens, so they pass
		query = query.Where(`LOWER(COALESCE(recipes.allergens, '')) NOT LIKE ? ESCAPE '\'`, `%"`+escapeLike(allergen)+`"%`)
	}

	switch filter.Sort {
	case types.SortOldest:
		query = query.Order("recipes.id ASC")
	case types.SortPopular, types.SortLikes:
		query = query.Order("recipes.likes DESC").Order("recipes.id DESC")
	default:
		query = query.Order("recipes.id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	summaries := make([]types.RecipeSummary, len(recipes))
	for i := range recipes {
		summaries[i] = toSummary(&recipes[i])
	}
	return summaries, nil
}

// Get returns the full view of a recipe
func (s *CatalogService) Get(ctx context.Context, id uint) (*types.RecipeDetail, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("RecipeCategories.Category").
		First(&recipe, id).Error
	if err != nil {
		return nil, notFoundOr(err, "recipe", id)
	}

	detail := toDetail(&recipe)
	return &detail, nil
}

// Create stores a new recipe owned by the actor
func (s *CatalogService) Create(ctx context.Context, actor types.Actor, req types.RecipeRequest) (*types.RecipeDetail, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if err := validateRecipe(req); err != nil {
		return nil, err
	}

	ownerID := actor.UserID
	recipe := models.Recipe{UserID: &ownerID}
	applyRecipeRequest(&recipe, req)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActiveAccount(tx, ownerID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return reconcileCategories(tx, recipe.ID, req.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("recipe_id", recipe.ID).Uint("user_id", ownerID).Msg("recipe created")
	return s.Get(ctx, recipe.ID)
}

// Update overwrites a recipe's fields and categories. Only the owner or an
// administrator may update.
func (s *CatalogService) Update(ctx context.Context, actor types.Actor, id uint, req types.RecipeRequest) error {
	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := loadForChange(tx, actor, id)
		if err != nil {
			return err
		}
		if err := validateRecipe(req); err != nil {
			return err
		}

		applyRecipeRequest(recipe, req)
		if err := tx.Model(recipe).Select(mutableRecipeColumns).Updates(recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe %d: %w", id, err)
		}
		return reconcileCategories(tx, id, req.CategoryIDs)
	})
	if err != nil {
		return err
	}

	log.Info().Uint("recipe_id", id).Uint("user_id", actor.UserID).Msg("recipe updated")
	return nil
}

// Delete removes a recipe. Its category links go with it through the
// foreign key cascade.
func (s *CatalogService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadForChange(tx, actor, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Recipe{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Uint("recipe_id", id).Uint("user_id", actor.UserID).Msg("recipe deleted")
	return nil
}

// SetImage points the recipe at a new image
func (s *CatalogService) SetImage(ctx context.Context, actor types.Actor, id uint, imageURL string) error {
	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := loadForChange(tx, actor, id)
		if err != nil {
			return err
		}
		return tx.Model(recipe).UpdateColumn("image_url", imageURL).Error
	})
}

// Authorize reports whether the actor may change the recipe, without changing it
func (s *CatalogService) Authorize(ctx context.Context, actor types.Actor, id uint) error {
	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}
	_, err := loadForChange(s.db.WithContext(ctx), actor, id)
	return err
}

// Like increments the like counter and returns the new value
func (s *CatalogService) Like(ctx context.Context, id uint) (int, error) {
	likes, err := s.adjustLikes(ctx, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Recipe{}).
			Where("id = ?", id).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	})
	if err != nil {
		return 0, err
	}
	metrics.RecipeLikes.WithLabelValues("like").Inc()
	return likes, nil
}

// Unlike decrements the like counter unless it is already zero
func (s *CatalogService) Unlike(ctx context.Context, id uint) (int, error) {
	likes, err := s.adjustLikes(ctx, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Recipe{}).
			Where("id = ?", id).
			Where("likes > 0").
			UpdateColumn("likes", gorm.Expr("likes - ?", 1))
	})
	if err != nil {
		return 0, err
	}
	metrics.RecipeLikes.WithLabelValues("unlike").Inc()
	return likes, nil
}

// adjustLikes applies a single conditional UPDATE and reads the counter back
// in the same transaction.
func (s *CatalogService) adjustLikes(ctx context.Context, id uint, update func(tx *gorm.DB) *gorm.DB) (int, error) {
	var likes []int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := update(tx).Error; err != nil {
			return fmt.Errorf("failed to update likes of recipe %d: %w", id, err)
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Pluck("likes", &likes).Error; err != nil {
			return fmt.Errorf("failed to read likes of recipe %d: %w", id, err)
		}
		if len(likes) == 0 {
			return fmt.Errorf("%w: recipe %d", ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return likes[0], nil
}

// requireActiveAccount rejects callers whose account was deleted or
// deactivated after their token was issued.
func requireActiveAccount(tx *gorm.DB, userID uint) error {
	var account models.User
	if err := tx.Select("id", "is_active").First(&account, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: user %d", ErrAccountDisabled, userID)
	}
	return nil
}

// loadForChange loads a recipe and checks the actor may modify it
func loadForChange(tx *gorm.DB, actor types.Actor, id uint) (*models.Recipe, error) {
	if err := requireActiveAccount(tx, actor.UserID); err != nil {
		return nil, err
	}
	var recipe models.Recipe
	if err := tx.First(&recipe, id).Error; err != nil {
		return nil, notFoundOr(err, "recipe", id)
	}
	if !actor.CanModify(recipe.UserID) {
		return nil, fmt.Errorf("%w: recipe %d belongs to another user", ErrForbidden, id)
	}
	return &recipe, nil
}

// reconcileCategories replaces the recipe's category links with the
// deduplicated submitted set.
func reconcileCategories(tx *gorm.DB, recipeID uint, categoryIDs []uint) error {
	unique := dedupeIDs(categoryIDs)

	if len(unique) > 0 {
		var known int64
		if err := tx.Model(&models.Category{}).Where("id IN ?", unique).Count(&known).Error; err != nil {
			return fmt.Errorf("failed to check categories: %w", err)
		}
		if int(known) != len(unique) {
			return fmt.Errorf("%w: unknown category id", ErrValidation)
		}
	}

	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeCategory{}).Error; err != nil {
		return fmt.Errorf("failed to clear categories of recipe %d: %w", recipeID, err)
	}
	if len(unique) == 0 {
		return nil
	}

	links := make([]models.RecipeCategory, len(unique))
	for i, categoryID := range unique {
		links[i] = models.RecipeCategory{RecipeID: recipeID, CategoryID: categoryID}
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link categories of recipe %d: %w", recipeID, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func validateRecipe(req types.RecipeRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.PrepTimeMinutes != nil && *req.PrepTimeMinutes < 0 {
		return fmt.Errorf("%w: prep time cannot be negative", ErrValidation)
	}
	if req.Servings < 0 {
		return fmt.Errorf("%w: servings cannot be negative", ErrValidation)
	}
	return nil
}

func applyRecipeRequest(recipe *models.Recipe, req types.RecipeRequest) {
	recipe.Title = strings.TrimSpace(req.Title)
	recipe.Description = req.Description
	recipe.Instructions = models.StringList(req.Instructions)
	recipe.Ingredients = models.StringList(req.Ingredients)
	recipe.Allergens = models.StringList(req.Allergens)
	recipe.PrepTimeMinutes = req.PrepTimeMinutes
	recipe.Difficulty = req.Difficulty
	recipe.ImageURL = req.ImageURL
	recipe.Servings = req.Servings
	if recipe.Servings == 0 {
		recipe.Servings = 1
	}
	recipe.IsVegan = req.IsVegan
}

func toSummary(r *models.Recipe) types.RecipeSummary {
	links := sortedLinks(r.RecipeCategories)
	names := make([]string, len(links))
	for i, link := range links {
		names[i] = link.Category.Name
	}

	var author string
	if r.User != nil {
		author = r.User.Username
	}

	return types.RecipeSummary{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		ImageURL:        r.ImageURL,
		PrepTimeMinutes: r.PrepTimeMinutes,
		Difficulty:      r.Difficulty,
		Servings:        r.Servings,
		IsVegan:         r.IsVegan,
		Likes:           r.Likes,
		Ingredients:     orEmpty(r.Ingredients),
		Allergens:       orEmpty(r.Allergens),
		Categories:      names,
		UserID:          r.UserID,
		AuthorName:      author,
		CreatedAt:       r.CreatedAt,
	}
}

func toDetail(r *models.Recipe) types.RecipeDetail {
	links := sortedLinks(r.RecipeCategories)
	ids := make([]uint, len(links))
	for i, link := range links {
		ids[i] = link.CategoryID
	}

	return types.RecipeDetail{
		RecipeSummary: toSummary(r),
		Instructions:  orEmpty(r.Instructions),
		CategoryIDs:   ids,
	}
}

func sortedLinks(links []models.RecipeCategory) []models.RecipeCategory {
	sorted := append([]models.RecipeCategory(nil), links...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CategoryID < sorted[j].CategoryID })
	return sorted
}

func orEmpty(list models.StringList) []string {
	if list == nil {
		return []string{}
	}
	return list
}
