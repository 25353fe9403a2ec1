package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events/schema"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/kafka"
)

// StatusRecorder appends status events on behalf of a principal.
type StatusRecorder interface {
	RecordEvent(ctx context.Context, p principal.Principal, petID uuid.UUID, req application.RecordStatusRequest) (*application.StatusEventDTO, error)
}

// AdoptionProcessConsumer listens to the adoption workflow and mirrors its
// progress into the status ledger, acting as the reporting institution.
type AdoptionProcessConsumer struct {
	consumer *kafka.Consumer
	ledger   StatusRecorder
	logger   *zap.Logger
}

// NewAdoptionProcessConsumer creates a new AdoptionProcessConsumer.
func NewAdoptionProcessConsumer(
	brokers []string,
	groupID string,
	ledger StatusRecorder,
	logger *zap.Logger,
) *AdoptionProcessConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, schema.TopicAdoptionProcessEvents, logger)
	return &AdoptionProcessConsumer{
		consumer: consumer,
		ledger:   ledger,
		logger:   logger,
	}
}

// Start begins consuming adoption process events. This blocks until the context is cancelled.
func (c *AdoptionProcessConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *AdoptionProcessConsumer) Close() error {
	return c.consumer.Close()
}

func (c *AdoptionProcessConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from adoption process topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case schema.AdoptionProcessUpdated:
		return c.handleProcessUpdated(ctx, msg, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled adoption process event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *AdoptionProcessConsumer) handleProcessUpdated(ctx context.Context, msg kafkago.Message, cloudEvent kafka.CloudEvent) error {
	var evt schema.AdoptionProcessUpdatedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse AdoptionProcessUpdatedEvent data",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil
	}
	if evt.PetID == uuid.Nil || evt.InstitutionID == uuid.Nil {
		c.logger.Error("adoption process event is missing identifiers",
			zap.String("event_id", cloudEvent.ID),
		)
		return nil
	}

	// Redeliveries and handler retries carry the same message id.
	messageID := cloudEvent.ID
	if messageID == "" {
		messageID = fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	}

	actor := principal.New(evt.InstitutionID, principal.KindInstitution)
	recorded, err := c.ledger.RecordEvent(ctx, actor, evt.PetID, application.RecordStatusRequest{
		Status:  evt.Status,
		Note:    evt.Note,
		EventID: schema.StatusEventID(messageID),
	})
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindForbidden, domain.KindNotFound, domain.KindValidation, domain.KindConflict:
			c.logger.Warn("rejected adoption process event",
				zap.String("event_id", cloudEvent.ID),
				zap.String("pet_id", evt.PetID.String()),
				zap.String("institution_id", evt.InstitutionID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to record adoption process event",
			zap.String("pet_id", evt.PetID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("adoption process status recorded",
		zap.String("pet_id", evt.PetID.String()),
		zap.String("status", recorded.Status),
	)
	return nil
}
