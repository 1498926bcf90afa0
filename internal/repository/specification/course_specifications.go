package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchasable keeps published courses that are not deleted.
type Purchasable struct{}

func (Purchasable) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND is_deleted = ?", "published", false)
}

func ByInstructor(instructorID uuid.UUID) Specification {
	return Filter("instructor_id", instructorID)
}

func ByCode(code string) Specification {
	return Filter("code", code)
}

// ActiveCoupons keeps coupons that are switched on and inside their window.
type ActiveCoupons struct {
	Now time.Time
}

func (s ActiveCoupons) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND valid_from <= ? AND valid_until >= ?", true, s.Now, s.Now)
}
