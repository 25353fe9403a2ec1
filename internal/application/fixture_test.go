package application

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/photo"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/repository/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ce)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeImageStore struct {
	mu   sync.Mutex
	keys []string
}

func (s *fakeImageStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ photo.ContentType) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return "https://img.test/" + key, nil
}

type fixture struct {
	store     *memory.Store
	tokens    *auth.TokenManager
	creds     *CredentialService
	pets      *PetService
	statuses  *StatusService
	publisher *recordingPublisher
	images    *fakeImageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()

	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenManager("test-secret", time.Hour, store.Institutions())

	publisher := &recordingPublisher{}
	images := &fakeImageStore{}

	statuses := NewStatusService(store.Pets(), store.StatusEvents(), store.Institutions(), store, publisher, nil, logger)
	photos := NewPhotoService(images, "pets/", logger)
	pets := NewPetService(store.Pets(), store.Institutions(), statuses, photos, store, publisher, nil, logger)
	creds := NewCredentialService(store.Users(), store.Institutions(), hasher, tokens, logger)

	return &fixture{
		store:     store,
		tokens:    tokens,
		creds:     creds,
		pets:      pets,
		statuses:  statuses,
		publisher: publisher,
		images:    images,
	}
}

var seq int

func (f *fixture) registerInstitution(t *testing.T) principal.Principal {
	t.Helper()
	seq++
	dto, err := f.creds.RegisterInstitution(context.Background(), RegisterInstitutionRequest{
		Name:     fmt.Sprintf("Shelter %d", seq),
		Email:    fmt.Sprintf("shelter%d@x.com", seq),
		TaxID:    fmt.Sprintf("TAX-%d", seq),
		Password: "secret",
		Kind:     "NGO",
		City:     "Recife",
		State:    "PE",
	})
	require.NoError(t, err)
	return principal.New(dto.ID, principal.KindInstitution)
}

func (f *fixture) createPet(t *testing.T, owner principal.Principal, name string) *PetDTO {
	t.Helper()
	dto, err := f.pets.Create(context.Background(), owner, CreatePetRequest{
		Name:    name,
		Species: "DOG",
		Size:    "MEDIUM",
		Gender:  "MALE",
		Age:     2,
	}, nil)
	require.NoError(t, err)
	return dto
}
