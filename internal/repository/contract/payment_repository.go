package contract

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/repository/specification"

	"github.com/shopspring/decimal"
)

type PaymentRepository interface {
	// Create returns an apperror Conflict when a pending payment already exists for the user and course.
	Create(ctx context.Context, payment *entity.CoursePayment) error
	// Update persists the payment only while its stored status still equals expected.
	// A lost race is reported as an apperror Conflict.
	Update(ctx context.Context, payment *entity.CoursePayment, expected entity.PaymentStatus) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CoursePayment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CoursePayment, error)
	// FindAllWithDetails fills course title and payer name.
	FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CoursePayment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SumAmount(ctx context.Context, specs ...specification.Specification) (decimal.Decimal, error)
	// FindCompletedWithoutEnrollment lists completed payments that have no enrollment for their user and course.
	FindCompletedWithoutEnrollment(ctx context.Context, limit int) ([]*entity.CoursePayment, error)
}
