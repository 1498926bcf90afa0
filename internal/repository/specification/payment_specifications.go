package specification

import (
	"time"

	"learnhub-be/internal/entity"

	"github.com/google/uuid"
)

func ByUser(userID uuid.UUID) Specification {
	return Filter("user_id", userID)
}

func ByCourse(courseID uuid.UUID) Specification {
	return Filter("course_id", courseID)
}

func ByCourses(courseIDs []uuid.UUID) Specification {
	return FilterIn{Field: "course_id", Values: courseIDs}
}

func ByPaymentStatus(status entity.PaymentStatus) Specification {
	return Filter("payment_status", string(status))
}

func ByPaymentMethod(method entity.PaymentMethod) Specification {
	return Filter("payment_method", string(method))
}

func ByPayment(paymentID uuid.UUID) Specification {
	return Filter("payment_id", paymentID)
}

func PaidBetween(from, to time.Time) Specification {
	return TimeRange{Field: "payment_date", From: from, To: to}
}

func CreatedBefore(t time.Time) Specification {
	return TimeRange{Field: "created_at", To: t}
}

func NewestFirst() Specification {
	return OrderBy{Field: "created_at", Desc: true}
}
