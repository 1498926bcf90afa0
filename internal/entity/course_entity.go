package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CourseStatus string

const (
	CourseStatusPublished CourseStatus = "published"
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusArchived  CourseStatus = "archived"
)

type Course struct {
	Id            uuid.UUID
	InstructorId  uuid.UUID
	Title         string
	Status        CourseStatus
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Students      int
	IsPremium     bool
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectivePrice falls back to the original price, then to zero.
func (c *Course) EffectivePrice() decimal.Decimal {
	if c.Price != nil && c.Price.IsPositive() {
		return *c.Price
	}
	if c.OriginalPrice != nil && c.OriginalPrice.IsPositive() {
		return *c.OriginalPrice
	}
	return decimal.Zero
}

func (c *Course) IsFree() bool {
	return !c.EffectivePrice().IsPositive()
}

func (c *Course) IsPurchasable() bool {
	return c.Status == CourseStatusPublished && !c.IsDeleted
}

const (
	RoleUser    = "user"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

type User struct {
	Id       uuid.UUID
	Email    string
	FullName string
	Role     string
}
