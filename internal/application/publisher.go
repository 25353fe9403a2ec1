package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events/schema"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/kafka"
)

// EventPublisher sends CloudEvents to a topic. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, kafka.CloudEvent) error { return nil }

// Recorder receives business metrics. *metrics.Metrics satisfies it.
type Recorder interface {
	PetCreated()
	StatusEventRecorded(status string)
}

type nopRecorder struct{}

func (nopRecorder) PetCreated()                {}
func (nopRecorder) StatusEventRecorded(string) {}

// publishEvent sends a pet event after commit. Failures are logged only: the
// state change has already happened.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, eventType, key string, data any) {
	ce, err := kafka.NewCloudEvent(schema.Source, eventType, key, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, schema.TopicPetEvents, ce); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", schema.TopicPetEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
