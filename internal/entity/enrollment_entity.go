package entity

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentType string

const (
	EnrollmentTypeFree   EnrollmentType = "free"
	EnrollmentTypePaid   EnrollmentType = "paid"
	EnrollmentTypeGifted EnrollmentType = "gifted"
)

type EnrollmentStatus string

const (
	EnrollmentStatusNotStarted EnrollmentStatus = "not-started"
	EnrollmentStatusInProgress EnrollmentStatus = "in-progress"
	EnrollmentStatusCompleted  EnrollmentStatus = "completed"
)

type CourseEnrollment struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	CourseId       uuid.UUID
	PaymentId      *uuid.UUID
	EnrollmentType EnrollmentType
	Progress       int
	Status         EnrollmentStatus
	StartDate      time.Time
	CompletionDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	CourseTitle string
}

func NewEnrollment(userID, courseID uuid.UUID, paymentID *uuid.UUID, kind EnrollmentType, now time.Time) *CourseEnrollment {
	return &CourseEnrollment{
		Id:             uuid.New(),
		UserId:         userID,
		CourseId:       courseID,
		PaymentId:      paymentID,
		EnrollmentType: kind,
		Progress:       0,
		Status:         EnrollmentStatusNotStarted,
		StartDate:      now,
	}
}
