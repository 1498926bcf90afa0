package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Course struct {
	Id            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InstructorId  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Title         string           `gorm:"type:varchar(255);not null"`
	Status        string           `gorm:"type:course_status;not null;default:'draft'"`
	Price         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Students      int              `gorm:"not null;default:0"`
	IsPremium     bool             `gorm:"default:false"`
	IsDeleted     bool             `gorm:"default:false;index"`
	CreatedAt     time.Time        `gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime"`
}

func (Course) TableName() string {
	return "courses"
}
