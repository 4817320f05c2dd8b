package models

import (
	"fmt"
	"time"
)

// Role is the closed set of user roles
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole converts a stored or claimed role name into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanManageCatalog reports whether the role may edit categories and any recipe
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin
}

// CanManageUsers reports whether the role may list, delete and deactivate users
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"userName"`
	Email        string    `gorm:"size:100;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:User" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`

	Recipes []Recipe `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
