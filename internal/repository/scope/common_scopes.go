package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func CompletedPayments(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ?", "completed")
}

func NotDeletedCourses(db *gorm.DB) *gorm.DB {
	return db.Where("courses.is_deleted = ?", false)
}
