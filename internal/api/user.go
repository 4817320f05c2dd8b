package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/savorly/backend/internal/middleware"
	"github.com/pageza/savorly/backend/internal/models"
	"github.com/pageza/savorly/backend/internal/service"
	"github.com/pageza/savorly/backend/internal/types"
)

// UserHandler serves the administrator's user management
type UserHandler struct {
	users service.IUserService
	auth  middleware.TokenValidator
}

func NewUserHandler(users service.IUserService, auth middleware.TokenValidator) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(h.auth), middleware.RequireRole(models.RoleAdmin))
	{
		users.GET("", h.ListUsers)
		users.DELETE("/:id", h.DeleteUser)
		users.PUT("/:id/toggle-status", h.ToggleStatus)
		users.GET("/:id/recipes", h.UserRecipes)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ToggleStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	active, err := h.users.ToggleStatus(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.StatusResponse{IsActive: active})
}

func (h *UserHandler) UserRecipes(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recipes, err := h.users.Recipes(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
