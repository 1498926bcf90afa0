package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValidateCouponQuery struct {
	CourseId string `query:"course_id" validate:"omitempty,uuid"`
	Amount   string `query:"amount" validate:"omitempty,numeric"`
}

type ValidateCouponResponse struct {
	Valid          bool             `json:"valid"`
	Reason         string           `json:"reason,omitempty"`
	Coupon         *CouponResponse  `json:"coupon,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	FinalAmount    *decimal.Decimal `json:"final_amount,omitempty"`
}

type CouponResponse struct {
	Id                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	Description       string           `json:"description,omitempty"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinPurchaseAmount decimal.Decimal  `json:"min_purchase_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	UsageLimit        *int             `json:"usage_limit,omitempty"`
	UsedCount         int              `json:"used_count"`
	ValidFrom         time.Time        `json:"valid_from"`
	ValidUntil        time.Time        `json:"valid_until"`
	IsActive          bool             `json:"is_active"`
	ApplicableCourses []uuid.UUID      `json:"applicable_courses"`
}

type CreateCouponRequest struct {
	Code              string           `json:"code" validate:"required,min=3,max=50,alphanum"`
	Description       string           `json:"description" validate:"max=500"`
	DiscountType      string           `json:"discount_type" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinPurchaseAmount decimal.Decimal  `json:"min_purchase_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	UsageLimit        *int             `json:"usage_limit" validate:"omitempty,min=0"`
	ValidFrom         time.Time        `json:"valid_from" validate:"required"`
	ValidUntil        time.Time        `json:"valid_until" validate:"required"`
	ApplicableCourses []uuid.UUID      `json:"applicable_courses"`
}

// UpdateCouponRequest only touches the fields that are present.
type UpdateCouponRequest struct {
	Description       *string          `json:"description" validate:"omitempty,max=500"`
	DiscountValue     *decimal.Decimal `json:"discount_value"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	UsageLimit        *int             `json:"usage_limit" validate:"omitempty,min=0"`
	ValidFrom         *time.Time       `json:"valid_from"`
	ValidUntil        *time.Time       `json:"valid_until"`
	IsActive          *bool            `json:"is_active"`
	ApplicableCourses *[]uuid.UUID     `json:"applicable_courses"`
}

type CouponListQuery struct {
	Active *bool `query:"active"`
	Page   int   `query:"page" validate:"omitempty,min=1"`
	Limit  int   `query:"limit" validate:"omitempty,min=1,max=100"`
}

type CouponListResponse struct {
	Coupons []CouponResponse `json:"coupons"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}
