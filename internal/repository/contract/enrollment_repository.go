package contract

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EnrollmentRepository interface {
	// Create returns an apperror Conflict when the user is already enrolled.
	Create(ctx context.Context, enrollment *entity.CourseEnrollment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CourseEnrollment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseEnrollment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error)
}
