package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/events"
	pktNats "learnhub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// NotificationDelivery pushes realtime updates. Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, msg dto.RealtimeMessage)
}

type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	emailQueue message.Publisher
	emailTopic string
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	emailQueue message.Publisher,
	emailTopic string,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		emailQueue: emailQueue,
		emailTopic: emailTopic,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber, realtime notifications disabled", nil)
		return
	}
	if err := s.subscriber.Subscribe(pktNats.SubjectPrefix+">", "learnhub-notification-worker", s.HandleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started", nil)
}

func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	userId := payloadUUID(payload, "user_id")
	instructorId := payloadUUID(payload, "instructor_id")
	title, _ := payload["course_title"].(string)
	amount, _ := payload["amount"].(string)

	s.logger.Info("NotificationService", "Processing event", map[string]interface{}{"type": event.EventType()})

	switch event.EventType() {
	case events.PaymentCompleted:
		s.push(userId, event, "Payment completed", fmt.Sprintf("Your payment of %s for %s was successful", amount, title))
		s.push(instructorId, event, "New sale", fmt.Sprintf("%s was purchased for %s", title, amount))
	case events.PaymentFailed:
		s.push(userId, event, "Payment failed", "Your payment could not be completed")
	case events.PaymentCancelled:
		s.push(userId, event, "Payment cancelled", "Your unfinished payment has expired")
	case events.PaymentRefunded:
		s.push(userId, event, "Payment refunded", "Your refund has been processed")
	case events.PaymentPendingConfirmation:
		s.push(userId, event, "Transfer received", fmt.Sprintf("Your bank transfer for %s is awaiting confirmation", title))
		s.push(instructorId, event, "Bank transfer to confirm", fmt.Sprintf("A bank transfer of %s for %s needs your confirmation", amount, title))
		return s.queueEmail(ctx, dto.EmailKindPendingTransfer, payload, userId, instructorId)
	case events.EnrollmentCreated:
		s.push(userId, event, "Enrolled", fmt.Sprintf("You now have access to %s", title))
		return s.queueEmail(ctx, dto.EmailKindEnrollment, payload, userId, instructorId)
	case events.RewardGranted:
		s.push(userId, event, "Reward earned", fmt.Sprintf("You earned %v points", payload["points"]))
	}
	return nil
}

func (s *NotificationService) push(userID uuid.UUID, event events.Event, title, text string) {
	if userID == uuid.Nil || s.delivery == nil {
		return
	}
	s.delivery.Send(userID, dto.RealtimeMessage{
		Type:      event.EventType(),
		Title:     title,
		Message:   text,
		Data:      event.Payload(),
		CreatedAt: time.Now(),
	})
}

// queueEmail resolves both parties and hands the mail to the in-process queue.
// Missing users are skipped, a lookup failure is retried by the bus.
func (s *NotificationService) queueEmail(ctx context.Context, kind string, payload map[string]interface{}, buyerId, creatorId uuid.UUID) error {
	if s.emailQueue == nil || creatorId == uuid.Nil {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	creator, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: creatorId})
	if err != nil {
		return err
	}
	if creator == nil || creator.Email == "" {
		return nil
	}
	buyer, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: buyerId})
	if err != nil {
		return err
	}
	if buyer == nil {
		buyer = &entity.User{}
	}

	job := dto.EmailJob{
		Kind:        kind,
		To:          creator.Email,
		CreatorName: creator.FullName,
		BuyerName:   buyer.FullName,
		BuyerEmail:  buyer.Email,
	}
	job.CourseTitle, _ = payload["course_title"].(string)
	job.Amount, _ = payload["amount"].(string)
	job.PaymentId, _ = payload["payment_id"].(string)

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := s.emailQueue.Publish(s.emailTopic, message.NewMessage(watermill.NewUUID(), data)); err != nil {
		s.logger.Error("NotificationService", "Failed to queue email", map[string]interface{}{"kind": kind, "error": err.Error()})
		return err
	}
	return nil
}

func payloadUUID(payload map[string]interface{}, key string) uuid.UUID {
	raw, _ := payload[key].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
