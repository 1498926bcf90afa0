package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CourseCoupon struct {
	Id                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code              string           `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description       string           `gorm:"type:text"`
	DiscountType      string           `gorm:"type:discount_type;not null"`
	DiscountValue     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MinPurchaseAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	MaxDiscountAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	UsageLimit        *int
	UsedCount         int                            `gorm:"not null;default:0"`
	ValidFrom         time.Time                      `gorm:"not null;index:idx_coupon_window,priority:1"`
	ValidUntil        time.Time                      `gorm:"not null;index:idx_coupon_window,priority:2"`
	IsActive          bool                           `gorm:"default:true;index"`
	ApplicableCourses datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb"`
	CreatedBy         *uuid.UUID                     `gorm:"type:uuid"`
	CreatedAt         time.Time                      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time                      `gorm:"autoUpdateTime"`
}

func (CourseCoupon) TableName() string {
	return "course_coupons"
}

type CouponUsage struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CouponId       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_usage_unique,priority:2"`
	UserId         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_usage_unique,priority:1"`
	PaymentId      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_usage_unique,priority:3"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UsedAt         time.Time       `gorm:"not null"`

	// Usage rows go away with their payment.
	Payment CoursePayment `gorm:"foreignKey:PaymentId;constraint:OnDelete:CASCADE"`
	Coupon  CourseCoupon  `gorm:"foreignKey:CouponId"`
}

func (CouponUsage) TableName() string {
	return "coupon_usages"
}
