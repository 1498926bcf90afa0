package dto

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentResponse struct {
	Id             uuid.UUID  `json:"id"`
	UserId         uuid.UUID  `json:"user_id"`
	CourseId       uuid.UUID  `json:"course_id"`
	CourseTitle    string     `json:"course_title,omitempty"`
	PaymentId      *uuid.UUID `json:"payment_id,omitempty"`
	EnrollmentType string     `json:"enrollment_type"`
	Progress       int        `json:"progress"`
	Status         string     `json:"status"`
	StartDate      time.Time  `json:"start_date"`
}

type CheckEnrollmentResponse struct {
	IsEnrolled        bool                `json:"is_enrolled"`
	Enrollment        *EnrollmentResponse `json:"enrollment,omitempty"`
	HasPendingPayment bool                `json:"has_pending_payment"`
	PendingPayment    *PaymentResponse    `json:"pending_payment,omitempty"`
}

// PendingPaymentInfo is attached to the error returned when a pending payment blocks enrollment.
type PendingPaymentInfo struct {
	IsPending     bool      `json:"is_pending"`
	PaymentId     uuid.UUID `json:"payment_id"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentRequiredInfo struct {
	RequiresPayment bool      `json:"requires_payment"`
	CourseId        uuid.UUID `json:"course_id"`
}
