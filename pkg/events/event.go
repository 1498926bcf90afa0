package events

import (
	"context"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PAYMENT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is satisfied by the NATS publisher and by test recorders.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

const (
	PaymentCompleted           = "PAYMENT_COMPLETED"
	PaymentFailed              = "PAYMENT_FAILED"
	PaymentRefunded            = "PAYMENT_REFUNDED"
	PaymentPendingConfirmation = "PAYMENT_PENDING_CONFIRMATION"
	PaymentCancelled           = "PAYMENT_CANCELLED"
	EnrollmentCreated          = "ENROLLMENT_CREATED"
	RewardGranted              = "REWARD_GRANTED"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

// New stamps the event and mirrors the time into the payload so it survives the wire.
func New(eventType string, data map[string]interface{}) BaseEvent {
	now := time.Now()
	if data == nil {
		data = make(map[string]interface{})
	}
	data["occurred_at"] = now.Format(time.RFC3339Nano)
	return BaseEvent{Type: eventType, Data: data, OccurredAt: now}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
