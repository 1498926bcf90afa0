package implementation

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/mapper"
	"learnhub-be/internal/model"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/contract"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type couponRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CouponMapper
}

func NewCouponRepository(db *gorm.DB) contract.CouponRepository {
	return &couponRepositoryImpl{db: db, mapper: mapper.NewCouponMapper()}
}

func (r *couponRepositoryImpl) Create(ctx context.Context, coupon *entity.CourseCoupon) error {
	m := r.mapper.ToModel(coupon)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err, "Coupon code already exists")
	}
	coupon.Id = m.Id
	coupon.CreatedAt = m.CreatedAt
	return nil
}

func (r *couponRepositoryImpl) Update(ctx context.Context, coupon *entity.CourseCoupon) error {
	m := r.mapper.ToModel(coupon)
	err := r.db.WithContext(ctx).Model(&model.CourseCoupon{}).
		Where("id = ?", coupon.Id).
		Select("description", "discount_type", "discount_value", "min_purchase_amount",
			"max_discount_amount", "usage_limit", "valid_from", "valid_until", "is_active",
			"applicable_courses", "updated_at").
		Updates(m).Error
	return translate(err, "Coupon code already exists")
}

func (r *couponRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CourseCoupon, error) {
	var m model.CourseCoupon
	query := applySpecs(r.db.WithContext(ctx), specs)

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *couponRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseCoupon, error) {
	var models []*model.CourseCoupon
	query := applySpecs(r.db.WithContext(ctx), specs)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	coupons := make([]*entity.CourseCoupon, 0, len(models))
	for _, m := range models {
		coupons = append(coupons, r.mapper.ToEntity(m))
	}
	return coupons, nil
}

func (r *couponRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := applySpecs(r.db.WithContext(ctx).Model(&model.CourseCoupon{}), specs).Count(&count).Error
	return count, err
}

func (r *couponRepositoryImpl) IncrementUsage(ctx context.Context, couponID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.CourseCoupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_limit <= 0 OR used_count < usage_limit)", couponID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Validation(entity.ErrCouponExhausted.Error())
	}
	return nil
}

type couponUsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CouponMapper
}

func NewCouponUsageRepository(db *gorm.DB) contract.CouponUsageRepository {
	return &couponUsageRepositoryImpl{db: db, mapper: mapper.NewCouponMapper()}
}

func (r *couponUsageRepositoryImpl) Create(ctx context.Context, usage *entity.CouponUsage) error {
	m := r.mapper.UsageToModel(usage)
	if err := r.db.WithContext(ctx).Omit("Payment", "Coupon").Create(m).Error; err != nil {
		return translate(err, "Coupon already applied to this payment")
	}
	usage.Id = m.Id
	return nil
}

func (r *couponUsageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CouponUsage, error) {
	var m model.CouponUsage
	query := applySpecs(r.db.WithContext(ctx), specs)

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UsageToEntity(&m), nil
}
