package dto

import "time"

// RealtimeMessage is pushed to connected clients over the websocket.
type RealtimeMessage struct {
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

const (
	EmailKindEnrollment      = "enrollment"
	EmailKindPendingTransfer = "pending_transfer"
)

// EmailJob is queued in-process and delivered by the mail consumer.
type EmailJob struct {
	Kind        string `json:"kind"`
	To          string `json:"to"`
	CreatorName string `json:"creator_name"`
	BuyerName   string `json:"buyer_name"`
	BuyerEmail  string `json:"buyer_email"`
	CourseTitle string `json:"course_title"`
	Amount      string `json:"amount"`
	PaymentId   string `json:"payment_id,omitempty"`
}
