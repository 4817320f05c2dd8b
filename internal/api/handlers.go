package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/savorly/backend/internal/metrics"
	"github.com/pageza/savorly/backend/internal/middleware"
	"github.com/pageza/savorly/backend/internal/service"
)

// Services bundles what the HTTP layer needs. Images, the limiters and
// Ping may be nil.
type Services struct {
	Catalog    service.ICatalogService
	Categories service.ICategoryService
	Users      service.IUserService
	Auth       service.IAuthService
	Images     service.IImageService

	RecipeCreateLimiter *middleware.RateLimiter
	LikeLimiter         *middleware.RateLimiter

	Ping func(ctx context.Context) error
}

// HealthCheck reports whether the API and its database are up
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services) {
	router.GET("/health", HealthCheck(svc.Ping))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	NewAuthHandler(svc.Auth).RegisterRoutes(api)
	NewRecipeHandler(svc.Catalog, svc.Images, svc.Auth, svc.RecipeCreateLimiter, svc.LikeLimiter).RegisterRoutes(api)
	NewCategoryHandler(svc.Categories, svc.Auth).RegisterRoutes(api)
	NewUserHandler(svc.Users, svc.Auth).RegisterRoutes(api)
}
