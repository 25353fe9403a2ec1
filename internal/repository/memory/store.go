// Package memory is an in-process implementation of every repository,
// used by unit tests and by the memory store driver.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
)

// Store holds all tables behind one lock. A transaction holds the write
// lock for its whole duration and restores a snapshot on error.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*user.User
	institutions map[uuid.UUID]*institution.Institution
	pets         map[uuid.UUID]*petDomain.Pet
	events       map[uuid.UUID][]*status.Event
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*user.User),
		institutions: make(map[uuid.UUID]*institution.Institution),
		pets:         make(map[uuid.UUID]*petDomain.Pet),
		events:       make(map[uuid.UUID][]*status.Event),
	}
}

type txKey struct{ store *Store }

func (s *Store) inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{store: s}).(bool)
	return ok
}

// WithinTransaction runs fn with exclusive access to the store. Nested
// calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
		if err != nil {
			s.restore(snap)
		}
	}()
	return fn(context.WithValue(ctx, txKey{store: s}, true))
}

// Ping reports the store as always reachable.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) read(ctx context.Context, fn func()) {
	if s.inTx(ctx) {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

type snapshot struct {
	users        map[uuid.UUID]*user.User
	institutions map[uuid.UUID]*institution.Institution
	pets         map[uuid.UUID]*petDomain.Pet
	events       map[uuid.UUID][]*status.Event
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		users:        make(map[uuid.UUID]*user.User, len(s.users)),
		institutions: make(map[uuid.UUID]*institution.Institution, len(s.institutions)),
		pets:         make(map[uuid.UUID]*petDomain.Pet, len(s.pets)),
		events:       make(map[uuid.UUID][]*status.Event, len(s.events)),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.institutions {
		snap.institutions[k] = v
	}
	for k, v := range s.pets {
		snap.pets[k] = v
	}
	for k, v := range s.events {
		snap.events[k] = append([]*status.Event(nil), v...)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.institutions = snap.institutions
	s.pets = snap.pets
	s.events = snap.events
}

// Repositories.

func (s *Store) Users() *UserRepository               { return &UserRepository{s: s} }
func (s *Store) Institutions() *InstitutionRepository { return &InstitutionRepository{s: s} }
func (s *Store) Pets() *PetRepository                 { return &PetRepository{s: s} }
func (s *Store) StatusEvents() *StatusRepository      { return &StatusRepository{s: s} }
