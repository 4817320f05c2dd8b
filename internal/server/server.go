package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/savorly/backend/config"
	"github.com/pageza/savorly/backend/internal/api"
	"github.com/pageza/savorly/backend/internal/database"
	"github.com/pageza/savorly/backend/internal/middleware"
	"github.com/pageza/savorly/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// Options carries the optional collaborators of the server
type Options struct {
	// Redis enables rate limiting when set
	Redis *redis.Client
	// ImageStore enables recipe image uploads when set
	ImageStore service.ObjectStore
}

// New wires services and routes on top of an open database
func New(cfg *config.Config, db *gorm.DB, opts Options) *Server {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.Origins()),
	)

	authService := service.NewAuthService(db, service.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Duration(cfg.JWTExpiresMinutes) * time.Minute,
	})
	catalog := service.NewCatalogService(db)

	svc := api.Services{
		Catalog:    catalog,
		Categories: service.NewCategoryService(db),
		Users:      service.NewUserService(db, catalog),
		Auth:       authService,
		Ping: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}

	if opts.ImageStore != nil {
		svc.Images = service.NewImageService(opts.ImageStore, catalog)
	} else {
		log.Info().Msg("no image store configured, recipe image uploads disabled")
	}

	if opts.Redis != nil {
		svc.RecipeCreateLimiter = middleware.NewRecipeCreationRateLimiter(opts.Redis, cfg.RecipeCreateLimit, cfg.RecipeCreateWindow)
		svc.LikeLimiter = middleware.NewLikeRateLimiter(opts.Redis, cfg.LikeLimit, cfg.LikeWindow)
	} else {
		log.Warn().Msg("redis unavailable, rate limiting disabled")
	}

	api.RegisterRoutes(router, svc)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
