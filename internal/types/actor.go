package types

import "github.com/pageza/savorly/backend/internal/models"

// Actor is the resolved identity of the caller of a mutating operation.
// The zero Actor is anonymous.
type Actor struct {
	UserID   uint
	Username string
	Role     models.Role
}

func (a Actor) IsAuthenticated() bool {
	return a.UserID != 0
}

func (a Actor) IsAdmin() bool {
	return a.Role.CanManageCatalog()
}

// CanModify reports whether the actor may change a resource owned by ownerID
func (a Actor) CanModify(ownerID *uint) bool {
	if !a.IsAuthenticated() {
		return false
	}
	if a.Role.CanManageCatalog() {
		return true
	}
	return ownerID != nil && *ownerID == a.UserID
}
