package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/types"
)

// CategoryService manages recipe categories. Reads are public, writes are
// reserved for administrators.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List returns all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFoundOr(err, "category", id)
	}
	return &category, nil
}

func (s *CategoryService) Create(ctx context.Context, actor types.Actor, req types.CategoryRequest) (*models.Category, error) {
	if err := requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	category, err := categoryFromRequest(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, category.Name, 0); err != nil {
			return err
		}
		return conflictOr(tx.Create(category).Error, "category %q already exists", category.Name)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, actor types.Actor, id uint, req types.CategoryRequest) error {
	if err := requireCatalogAdmin(actor); err != nil {
		return err
	}
	changes, err := categoryFromRequest(req)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFoundOr(err, "category", id)
		}
		if err := ensureNameFree(tx, changes.Name, id); err != nil {
			return err
		}
		err := tx.Model(&category).Updates(map[string]interface{}{
			"name": changes.Name,
			"slug": changes.Slug,
		}).Error
		return conflictOr(err, "category %q already exists", changes.Name)
	})
}

// Delete removes a category and its recipe links; recipes are kept
func (s *CategoryService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	if err := requireCatalogAdmin(actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}

	log.Info().Uint("category_id", id).Msg("category deleted")
	return nil
}

func requireCatalogAdmin(actor types.Actor) error {
	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !actor.Role.CanManageCatalog() {
		return fmt.Errorf("%w: administrator role required", ErrForbidden)
	}
	return nil
}

func categoryFromRequest(req types.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = models.Slugify(name)
	}
	return &models.Category{Name: name, Slug: slug}, nil
}

func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	query := tx.Model(&models.Category{}).Where("name = ?", name)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}
	return nil
}
