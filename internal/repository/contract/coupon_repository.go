package contract

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.CourseCoupon) error
	Update(ctx context.Context, coupon *entity.CourseCoupon) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CourseCoupon, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseCoupon, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// IncrementUsage bumps used_count unless the usage limit is already reached,
	// in which case an apperror Validation is returned.
	IncrementUsage(ctx context.Context, couponID uuid.UUID) error
}

type CouponUsageRepository interface {
	Create(ctx context.Context, usage *entity.CouponUsage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CouponUsage, error)
}
