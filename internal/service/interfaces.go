package service

import (
	"context"

	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/types"
)

// ICatalogService defines the recipe catalog operations
type ICatalogService interface {
	List(ctx context.Context, filter types.RecipeFilter) ([]types.RecipeSummary, error)
	Get(ctx context.Context, id uint) (*types.RecipeDetail, error)
	Create(ctx context.Context, actor types.Actor, req types.RecipeRequest) (*types.RecipeDetail, error)
	Update(ctx context.Context, actor types.Actor, id uint, req types.RecipeRequest) error
	Delete(ctx context.Context, actor types.Actor, id uint) error
	Like(ctx context.Context, id uint) (int, error)
	Unlike(ctx context.Context, id uint) (int, error)
}

// ICategoryService defines the category operations
type ICategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, actor types.Actor, req types.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, actor types.Actor, id uint, req types.CategoryRequest) error
	Delete(ctx context.Context, actor types.Actor, id uint) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error)
	Me(ctx context.Context, actor types.Actor) (*types.UserDTO, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IUserService defines the user administration operations
type IUserService interface {
	List(ctx context.Context, actor types.Actor) ([]types.UserDTO, error)
	Delete(ctx context.Context, actor types.Actor, id uint) error
	ToggleStatus(ctx context.Context, actor types.Actor, id uint) (bool, error)
	Recipes(ctx context.Context, actor types.Actor, id uint) ([]types.RecipeSummary, error)
}

// IImageService defines recipe image uploads
type IImageService interface {
	UploadRecipeImage(ctx context.Context, actor types.Actor, recipeID uint, data []byte) (string, error)
}

var (
	_ ICatalogService  = (*CatalogService)(nil)
	_ ICategoryService = (*CategoryService)(nil)
	_ IAuthService     = (*AuthService)(nil)
	_ IUserService     = (*UserService)(nil)
	_ IImageService    = (*ImageService)(nil)
)
