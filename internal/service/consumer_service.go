package service

import (
	"context"
	"encoding/json"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

// NewConsumerService delivers the e-mail jobs queued by the notification worker.
func NewConsumerService(subscriber message.Subscriber, topicName string, mail mailer.IEmailService, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		mailer:     mail,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var job dto.EmailJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal email job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	notice := mailer.CourseNotice{
		CreatorName: job.CreatorName,
		BuyerName:   job.BuyerName,
		BuyerEmail:  job.BuyerEmail,
		CourseTitle: job.CourseTitle,
		Amount:      job.Amount,
		PaymentId:   job.PaymentId,
	}

	var err error
	switch job.Kind {
	case dto.EmailKindEnrollment:
		err = cs.mailer.SendEnrollmentNotice(job.To, notice)
	case dto.EmailKindPendingTransfer:
		err = cs.mailer.SendPendingTransferNotice(job.To, notice)
	default:
		cs.logger.Warn("CONSUMER", "Unknown email job", map[string]interface{}{"kind": job.Kind})
		msg.Ack()
		return
	}

	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to send email", map[string]interface{}{
			"kind":  job.Kind,
			"to":    job.To,
			"error": err.Error(),
		})
		// gochannel redelivers a Nack immediately, so SMTP outages are not retried.
		msg.Ack()
		return
	}

	cs.logger.Info("CONSUMER", "Email sent", map[string]interface{}{"kind": job.Kind, "to": job.To})
	msg.Ack()
}
