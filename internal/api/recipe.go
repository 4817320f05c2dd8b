package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/savorly/backend/internal/middleware"
	"github.com/pageza/savorly/backend/internal/service"
	"github.com/pageza/savorly/backend/internal/types"
)

type RecipeHandler struct {
	catalog       service.ICatalogService
	images        service.IImageService
	auth          middleware.TokenValidator
	createLimiter *middleware.RateLimiter
	likeLimiter   *middleware.RateLimiter
}

// NewRecipeHandler wires the recipe routes. images and the limiters may be
// nil, which disables uploads and rate limiting.
func NewRecipeHandler(catalog service.ICatalogService, images service.IImageService, auth middleware.TokenValidator, createLimiter, likeLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		catalog:       catalog,
		images:        images,
		auth:          auth,
		createLimiter: createLimiter,
		likeLimiter:   likeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", requireAuth, h.createLimiter.Middleware(), h.CreateRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/like", middleware.OptionalAuth(h.auth), h.likeLimiter.Middleware(), h.LikeRecipe)
		recipes.POST("/:id/unlike", middleware.OptionalAuth(h.auth), h.likeLimiter.Middleware(), h.UnlikeRecipe)
		recipes.POST("/:id/image", requireAuth, h.UploadImage)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ex := c.Query("exclude"); ex != "" {
		filter.ExcludeAllergens = strings.Split(ex, ",")
	}

	recipes, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.catalog.Create(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", c.Request.URL.Path+"/"+strconv.FormatUint(uint64(recipe.ID), 10))
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.catalog.Update(c.Request.Context(), middleware.ActorFromContext(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	likes, err := h.catalog.Like(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.LikesResponse{Likes: likes})
}

func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	likes, err := h.catalog.Unlike(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.LikesResponse{Likes: likes})
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	url, err := h.images.UploadRecipeImage(c.Request.Context(), middleware.ActorFromContext(c), id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
