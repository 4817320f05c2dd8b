package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/savorly/backend/internal/api"
	"github.com/pageza/savorly/backend/internal/database"
	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/service"
	"github.com/pageza/savorly/backend/internal/testhelpers"
)

type memoryStore struct {
	objects map[string][]byte
}

func (s *memoryStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	s.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	store  *memoryStore

	admin      *models.User
	user       *models.User
	other      *models.User
	adminToken string
	userToken  string
	otherToken string
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	catalog := service.NewCatalogService(db)
	store := &memoryStore{objects: map[string][]byte{}}

	router := gin.New()
	api.RegisterRoutes(router, api.Services{
		Catalog:    catalog,
		Categories: service.NewCategoryService(db),
		Users:      service.NewUserService(db, catalog),
		Auth:       service.NewAuthService(db, testhelpers.TestTokens),
		Images:     service.NewImageService(store, catalog),
		Ping: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	})

	a := &testAPI{router: router, db: db, store: store}
	a.admin = testhelpers.CreateUser(t, db, "admin", models.RoleAdmin)
	a.user = testhelpers.CreateUser(t, db, "cook", models.RoleUser)
	a.other = testhelpers.CreateUser(t, db, "rival", models.RoleUser)
	a.adminToken = testhelpers.TokenFor(t, db, a.admin)
	a.userToken = testhelpers.TokenFor(t, db, a.user)
	a.otherToken = testhelpers.TokenFor(t, db, a.other)
	return a
}

// performRequest sends body as JSON with an optional bearer token
func performRequest(router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
