package contract

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CourseRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Course, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error)
	// IncrementStudents adds delta to the student counter. The counter never drops below zero.
	IncrementStudents(ctx context.Context, courseID uuid.UUID, delta int) error
}

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
