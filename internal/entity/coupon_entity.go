package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

var (
	ErrCouponInactive        = errors.New("Coupon is no longer active")
	ErrCouponNotStarted      = errors.New("Coupon is not valid yet")
	ErrCouponExpired         = errors.New("Coupon has expired")
	ErrCouponExhausted       = errors.New("Coupon usage limit reached")
	ErrCouponNotApplicable   = errors.New("Coupon does not apply to this course")
	ErrCouponBelowMinimumBuy = errors.New("Order amount is below the coupon minimum")
)

type CourseCoupon struct {
	Id                uuid.UUID
	Code              string
	Description       string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MinPurchaseAmount decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int
	UsedCount         int
	ValidFrom         time.Time
	ValidUntil        time.Time
	IsActive          bool
	// Nil means the coupon applies to every course.
	ApplicableCourses []uuid.UUID
	CreatedBy         *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NormalizeCoupon canonicalises a user supplied code.
func NormalizeCoupon(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the coupon against a purchase. Checks run in a fixed order so
// the first failing rule decides the message. courseID may be uuid.Nil to skip
// the scope check.
func (c *CourseCoupon) Validate(courseID uuid.UUID, amount decimal.Decimal, now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if now.Before(c.ValidFrom) {
		return ErrCouponNotStarted
	}
	if now.After(c.ValidUntil) {
		return ErrCouponExpired
	}
	if c.UsageLimit != nil && *c.UsageLimit > 0 && c.UsedCount >= *c.UsageLimit {
		return ErrCouponExhausted
	}
	if amount.LessThan(c.MinPurchaseAmount) {
		return fmt.Errorf("%w (%s)", ErrCouponBelowMinimumBuy, c.MinPurchaseAmount.StringFixed(0))
	}
	if courseID != uuid.Nil && c.ApplicableCourses != nil && !c.AppliesTo(courseID) {
		return ErrCouponNotApplicable
	}
	return nil
}

func (c *CourseCoupon) AppliesTo(courseID uuid.UUID) bool {
	if c.ApplicableCourses == nil {
		return true
	}
	for _, id := range c.ApplicableCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// CalculateDiscount never returns more than amount or less than zero.
// Percentage discounts are capped by MaxDiscountAmount and rounded to whole units.
func (c *CourseCoupon) CalculateDiscount(amount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = amount.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
		if c.MaxDiscountAmount != nil && c.MaxDiscountAmount.IsPositive() && discount.GreaterThan(*c.MaxDiscountAmount) {
			discount = *c.MaxDiscountAmount
		}
		discount = discount.Round(0)
	default:
		discount = decimal.Min(c.DiscountValue, amount)
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, amount)
}

func (c *CourseCoupon) HasRemainingUses() bool {
	return c.UsageLimit == nil || *c.UsageLimit <= 0 || c.UsedCount < *c.UsageLimit
}

type CouponUsage struct {
	Id             uuid.UUID
	CouponId       uuid.UUID
	UserId         uuid.UUID
	PaymentId      uuid.UUID
	DiscountAmount decimal.Decimal
	UsedAt         time.Time
}
