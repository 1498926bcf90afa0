package model

import (
	"time"

	"github.com/google/uuid"
)

type CourseEnrollment struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course,priority:1"`
	CourseId       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course,priority:2"`
	PaymentId      *uuid.UUID `gorm:"type:uuid;index"`
	EnrollmentType string     `gorm:"type:enrollment_type;not null;default:'free'"`
	Progress       int        `gorm:"not null;default:0"`
	Status         string     `gorm:"type:enrollment_status;not null;default:'not-started'"`
	StartDate      time.Time  `gorm:"not null"`
	CompletionDate *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Course Course `gorm:"foreignKey:CourseId"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
