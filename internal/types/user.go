package types

import (
	"time"

	"github.com/pageza/savorly/backend/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDTO is the public view of a user account
type UserDTO struct {
	ID        uint        `json:"id"`
	UserName  string      `json:"userName"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserDTO maps a stored user to its public view
func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		UserName:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type StatusResponse struct {
	IsActive bool `json:"isActive"`
}
