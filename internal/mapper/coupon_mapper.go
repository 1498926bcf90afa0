package mapper

import (
	"learnhub-be/internal/entity"
	"learnhub-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CouponMapper struct{}

func NewCouponMapper() *CouponMapper {
	return &CouponMapper{}
}

func (m *CouponMapper) ToEntity(c *model.CourseCoupon) *entity.CourseCoupon {
	if c == nil {
		return nil
	}
	var applicable []uuid.UUID
	if c.ApplicableCourses != nil {
		applicable = []uuid.UUID(c.ApplicableCourses)
	}
	return &entity.CourseCoupon{
		Id:                c.Id,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      entity.DiscountType(c.DiscountType),
		DiscountValue:     c.DiscountValue,
		MinPurchaseAmount: c.MinPurchaseAmount,
		MaxDiscountAmount: c.MaxDiscountAmount,
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		ValidFrom:         c.ValidFrom,
		ValidUntil:        c.ValidUntil,
		IsActive:          c.IsActive,
		ApplicableCourses: applicable,
		CreatedBy:         c.CreatedBy,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (m *CouponMapper) ToModel(c *entity.CourseCoupon) *model.CourseCoupon {
	if c == nil {
		return nil
	}
	var applicable datatypes.JSONSlice[uuid.UUID]
	if c.ApplicableCourses != nil {
		applicable = datatypes.NewJSONSlice(c.ApplicableCourses)
	}
	return &model.CourseCoupon{
		Id:                c.Id,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      string(c.DiscountType),
		DiscountValue:     c.DiscountValue,
		MinPurchaseAmount: c.MinPurchaseAmount,
		MaxDiscountAmount: c.MaxDiscountAmount,
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		ValidFrom:         c.ValidFrom,
		ValidUntil:        c.ValidUntil,
		IsActive:          c.IsActive,
		ApplicableCourses: applicable,
		CreatedBy:         c.CreatedBy,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (m *CouponMapper) UsageToModel(u *entity.CouponUsage) *model.CouponUsage {
	return &model.CouponUsage{
		Id:             u.Id,
		CouponId:       u.CouponId,
		UserId:         u.UserId,
		PaymentId:      u.PaymentId,
		DiscountAmount: u.DiscountAmount,
		UsedAt:         u.UsedAt,
	}
}

func (m *CouponMapper) UsageToEntity(u *model.CouponUsage) *entity.CouponUsage {
	if u == nil {
		return nil
	}
	return &entity.CouponUsage{
		Id:             u.Id,
		CouponId:       u.CouponId,
		UserId:         u.UserId,
		PaymentId:      u.PaymentId,
		DiscountAmount: u.DiscountAmount,
		UsedAt:         u.UsedAt,
	}
}
