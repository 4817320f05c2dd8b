package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/savorly/backend/internal/types"
)

// MockCatalogService is a mock implementation of the catalog service
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, filter types.RecipeFilter) ([]types.RecipeSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSummary), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, id uint) (*types.RecipeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, actor types.Actor, req types.RecipeRequest) (*types.RecipeDetail, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, actor types.Actor, id uint, req types.RecipeRequest) error {
	return m.Called(ctx, actor, id, req).Error(0)
}

func (m *MockCatalogService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockCatalogService) Like(ctx context.Context, id uint) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogService) Unlike(ctx context.Context, id uint) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
