package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events/schema"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/repository/memory"
)

type call struct {
	actor principal.Principal
	petID uuid.UUID
	req   application.RecordStatusRequest
}

type stubLedger struct {
	calls []call
	err   error
}

func (s *stubLedger) RecordEvent(_ context.Context, p principal.Principal, petID uuid.UUID, req application.RecordStatusRequest) (*application.StatusEventDTO, error) {
	s.calls = append(s.calls, call{actor: p, petID: petID, req: req})
	if s.err != nil {
		return nil, s.err
	}
	return &application.StatusEventDTO{PetID: petID, Status: req.Status}, nil
}

func newTestConsumer(ledger StatusRecorder) *AdoptionProcessConsumer {
	return &AdoptionProcessConsumer{ledger: ledger, logger: zap.NewNop()}
}

func message(t *testing.T, eventType string, data any) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("service-adoption-process", eventType, "pet", data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestHandleMessage_RecordsAsInstitution(t *testing.T) {
	ledger := &stubLedger{}
	c := newTestConsumer(ledger)
	petID, instID := uuid.New(), uuid.New()

	err := c.handleMessage(context.Background(), message(t, schema.AdoptionProcessUpdated, schema.AdoptionProcessUpdatedEvent{
		PetID:         petID,
		InstitutionID: instID,
		Status:        "IN_PROCESS",
		Note:          "interview scheduled",
	}))
	require.NoError(t, err)

	require.Len(t, ledger.calls, 1)
	got := ledger.calls[0]
	assert.Equal(t, petID, got.petID)
	assert.Equal(t, instID, got.actor.ID)
	assert.True(t, got.actor.IsInstitution())
	assert.Equal(t, "IN_PROCESS", got.req.Status)
	assert.Equal(t, "interview scheduled", got.req.Note)
	assert.NotEqual(t, uuid.Nil, got.req.EventID)
}

func TestHandleMessage_RedeliveryUsesSameEventID(t *testing.T) {
	ledger := &stubLedger{}
	c := newTestConsumer(ledger)
	msg := message(t, schema.AdoptionProcessUpdated, schema.AdoptionProcessUpdatedEvent{
		PetID: uuid.New(), InstitutionID: uuid.New(), Status: "IN_PROCESS",
	})
	ce, err := kafka.ParseCloudEvent(msg.Value)
	require.NoError(t, err)

	require.NoError(t, c.handleMessage(context.Background(), msg))
	require.NoError(t, c.handleMessage(context.Background(), msg))

	require.Len(t, ledger.calls, 2)
	assert.Equal(t, schema.StatusEventID(ce.ID), ledger.calls[0].req.EventID)
	assert.Equal(t, ledger.calls[0].req.EventID, ledger.calls[1].req.EventID)
}

func TestHandleMessage_FallsBackToOffsetForEventID(t *testing.T) {
	ledger := &stubLedger{}
	c := newTestConsumer(ledger)
	ce, err := kafka.NewCloudEvent("service-adoption-process", schema.AdoptionProcessUpdated, "pet", schema.AdoptionProcessUpdatedEvent{
		PetID: uuid.New(), InstitutionID: uuid.New(), Status: "IN_PROCESS",
	})
	require.NoError(t, err)
	ce.ID = ""
	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	first := kafkago.Message{Topic: schema.TopicAdoptionProcessEvents, Partition: 1, Offset: 42, Value: raw}
	next := kafkago.Message{Topic: schema.TopicAdoptionProcessEvents, Partition: 1, Offset: 43, Value: raw}
	require.NoError(t, c.handleMessage(context.Background(), first))
	require.NoError(t, c.handleMessage(context.Background(), first))
	require.NoError(t, c.handleMessage(context.Background(), next))

	require.Len(t, ledger.calls, 3)
	assert.Equal(t, ledger.calls[0].req.EventID, ledger.calls[1].req.EventID)
	assert.NotEqual(t, ledger.calls[0].req.EventID, ledger.calls[2].req.EventID)
}

func TestHandleMessage_DuplicateDeliveryAppendsOnce(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	store := memory.NewStore()
	statuses := application.NewStatusService(store.Pets(), store.StatusEvents(), store.Institutions(), store, nil, nil, logger)
	pets := application.NewPetService(store.Pets(), store.Institutions(), statuses, nil, store, nil, nil, logger)

	inst, err := institution.NewInstitution(institution.Profile{
		Name: "Patas Felizes", Email: "patas@x.com", TaxID: "TAX-1", Kind: institution.KindNGO,
	}, "hash")
	require.NoError(t, err)
	require.NoError(t, store.Institutions().Save(ctx, inst))
	owner := principal.New(inst.ID(), principal.KindInstitution)
	pet, err := pets.Create(ctx, owner, application.CreatePetRequest{
		Name: "Rex", Species: "DOG", Size: "MEDIUM", Gender: "MALE",
	}, nil)
	require.NoError(t, err)

	c := &AdoptionProcessConsumer{ledger: statuses, logger: logger}
	msg := message(t, schema.AdoptionProcessUpdated, schema.AdoptionProcessUpdatedEvent{
		PetID: pet.ID, InstitutionID: inst.ID(), Status: "ADOPTED",
	})
	require.NoError(t, c.handleMessage(ctx, msg))
	require.NoError(t, c.handleMessage(ctx, msg))

	history, err := statuses.History(ctx, pet.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "ADOPTED", history[0].Status)
	stored, err := pets.GetByID(ctx, pet.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}

func TestHandleMessage_Skips(t *testing.T) {
	valid := schema.AdoptionProcessUpdatedEvent{PetID: uuid.New(), InstitutionID: uuid.New(), Status: "ADOPTED"}

	tests := []struct {
		name      string
		msg       func(t *testing.T) kafkago.Message
		ledgerErr error
		calls     int
	}{
		{
			name:  "malformed json",
			msg:   func(*testing.T) kafkago.Message { return kafkago.Message{Value: []byte("{nope")} },
			calls: 0,
		},
		{
			name:  "unknown type",
			msg:   func(t *testing.T) kafkago.Message { return message(t, "adoption.process.archived", valid) },
			calls: 0,
		},
		{
			name: "missing pet id",
			msg: func(t *testing.T) kafkago.Message {
				return message(t, schema.AdoptionProcessUpdated, schema.AdoptionProcessUpdatedEvent{InstitutionID: uuid.New(), Status: "ADOPTED"})
			},
			calls: 0,
		},
		{
			name:      "forbidden",
			msg:       func(t *testing.T) kafkago.Message { return message(t, schema.AdoptionProcessUpdated, valid) },
			ledgerErr: domain.NewForbiddenError("pet belongs to another institution"),
			calls:     1,
		},
		{
			name:      "unknown pet",
			msg:       func(t *testing.T) kafkago.Message { return message(t, schema.AdoptionProcessUpdated, valid) },
			ledgerErr: domain.NewNotFoundError("pet", valid.PetID.String()),
			calls:     1,
		},
		{
			name:      "event id reused on another pet",
			msg:       func(t *testing.T) kafkago.Message { return message(t, schema.AdoptionProcessUpdated, valid) },
			ledgerErr: domain.NewConflictError("status event already recorded for another pet"),
			calls:     1,
		},
		{
			name:      "invalid status",
			msg:       func(t *testing.T) kafkago.Message { return message(t, schema.AdoptionProcessUpdated, valid) },
			ledgerErr: domain.NewValidationError("invalid pet status: LOST"),
			calls:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &stubLedger{err: tt.ledgerErr}
			err := newTestConsumer(ledger).handleMessage(context.Background(), tt.msg(t))
			assert.NoError(t, err)
			assert.Len(t, ledger.calls, tt.calls)
		})
	}
}

func TestHandleMessage_RetriesStoreFailures(t *testing.T) {
	boom := errors.New("connection reset")
	ledger := &stubLedger{err: boom}
	c := newTestConsumer(ledger)

	err := c.handleMessage(context.Background(), message(t, schema.AdoptionProcessUpdated, schema.AdoptionProcessUpdatedEvent{
		PetID: uuid.New(), InstitutionID: uuid.New(), Status: "ADOPTED",
	}))
	assert.ErrorIs(t, err, boom)
}
