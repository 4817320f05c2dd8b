package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/service"
	"github.com/pageza/savorly/backend/internal/types"
)

// TestPassword is the password of every user created by CreateUser
const TestPassword = "password123"

// TestTokens is the signing configuration used in tests
var TestTokens = service.TokenConfig{
	Secret:   "test-secret",
	Issuer:   "savorly-test",
	Audience: "savorly-test-clients",
	TTL:      time.Hour,
}

// CreateUser inserts an active user with the given role
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: string(hashed),
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateCategory inserts a category
func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: models.Slugify(name)}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create category %s: %v", name, err)
	}
	return category
}

// ActorFor returns the actor of an existing user
func ActorFor(user *models.User) types.Actor {
	return types.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}
}

// TokenFor signs a token for the user with TestTokens
func TokenFor(t *testing.T, db *gorm.DB, user *models.User) string {
	t.Helper()

	token, err := service.NewAuthService(db, TestTokens).GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// FakeRecipe returns a valid request with generated content
func FakeRecipe(categoryIDs ...uint) types.RecipeRequest {
	prep := gofakeit.Number(5, 90)
	return types.RecipeRequest{
		Title:           gofakeit.Dinner(),
		Description:     gofakeit.Sentence(10),
		Instructions:    []string{gofakeit.Sentence(6), gofakeit.Sentence(6)},
		Ingredients:     []string{gofakeit.Vegetable(), gofakeit.Fruit()},
		PrepTimeMinutes: &prep,
		Difficulty:      "Könnyű",
		Servings:        gofakeit.Number(1, 6),
		CategoryIDs:     categoryIDs,
	}
}
