package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/types"
)

// UserService implements the administrator's user management
type UserService struct {
	db      *gorm.DB
	catalog *CatalogService
}

func NewUserService(db *gorm.DB, catalog *CatalogService) *UserService {
	return &UserService{db: db, catalog: catalog}
}

func (s *UserService) List(ctx context.Context, actor types.Actor) ([]types.UserDTO, error) {
	if err := requireUserAdmin(actor); err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]types.UserDTO, len(users))
	for i := range users {
		dtos[i] = types.NewUserDTO(&users[i])
	}
	return dtos, nil
}

// Delete removes a user account. Their recipes stay in the catalog without an owner.
func (s *UserService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	if err := requireUserAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return fmt.Errorf("%w: administrators cannot delete their own account", ErrValidation)
	}

	result := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}

	log.Info().Uint("user_id", id).Uint("admin_id", actor.UserID).Msg("user deleted")
	return nil
}

// ToggleStatus flips the active flag and returns the new value
func (s *UserService) ToggleStatus(ctx context.Context, actor types.Actor, id uint) (bool, error) {
	if err := requireUserAdmin(actor); err != nil {
		return false, err
	}
	if id == actor.UserID {
		return false, fmt.Errorf("%w: administrators cannot deactivate their own account", ErrValidation)
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "user", id)
		}
		user.IsActive = !user.IsActive
		return tx.Model(&user).Update("is_active", user.IsActive).Error
	})
	if err != nil {
		return false, err
	}

	log.Info().Uint("user_id", id).Bool("is_active", user.IsActive).Msg("user status changed")
	return user.IsActive, nil
}

// Recipes lists the recipes owned by a user, newest first
func (s *UserService) Recipes(ctx context.Context, actor types.Actor, id uint) ([]types.RecipeSummary, error) {
	if err := requireUserAdmin(actor); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return s.catalog.List(ctx, types.RecipeFilter{UserID: &id})
}

func requireUserAdmin(actor types.Actor) error {
	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !actor.Role.CanManageUsers() {
		return fmt.Errorf("%w: administrator role required", ErrForbidden)
	}
	return nil
}
