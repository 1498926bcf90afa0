package service

import (
	"learnhub-be/internal/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation that depends on role.
type Actor struct {
	UserId uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// Owns reports whether the actor may act on a course owned by instructorID.
func (a Actor) Owns(instructorID uuid.UUID) bool {
	return a.IsAdmin() || (a.Role == entity.RoleCreator && a.UserId == instructorID)
}
