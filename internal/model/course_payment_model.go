package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CoursePayment struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourseId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OriginalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod  string          `gorm:"type:payment_method;not null"`
	PaymentStatus  string          `gorm:"type:payment_status;not null;default:'pending';index"`
	TransactionId  *string         `gorm:"type:varchar(255);uniqueIndex"`
	PaymentGateway string          `gorm:"type:varchar(100)"`
	PaymentDate    *time.Time      `gorm:"index"`
	RefundDate     *time.Time
	RefundReason   string         `gorm:"type:text"`
	Notes          string         `gorm:"type:text"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`

	// Relations
	Course Course `gorm:"foreignKey:CourseId"`
	User   User   `gorm:"foreignKey:UserId"`
}

func (CoursePayment) TableName() string {
	return "course_payments"
}
