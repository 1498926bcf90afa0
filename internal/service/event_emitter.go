package service

import (
	"context"

	"learnhub-be/internal/pkg/logger"
	"learnhub-be/pkg/events"
)

// eventEmitter publishes after commit. Publishing is best effort: a bus outage
// never fails the request that produced the event.
type eventEmitter struct {
	publisher events.Publisher
	logger    logger.ILogger
}

func newEventEmitter(publisher events.Publisher, log logger.ILogger) *eventEmitter {
	return &eventEmitter{publisher: publisher, logger: log}
}

func (e *eventEmitter) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if e == nil || e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		e.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
