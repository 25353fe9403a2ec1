package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	photoDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/photo"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events/schema"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
)

// CreatePetRequest is the request DTO for registering a pet. Form tags are
// used for multipart requests, where the photos field carries files instead.
type CreatePetRequest struct {
	Name         string   `json:"name" form:"name" binding:"required"`
	Species      string   `json:"species" form:"species" binding:"required"`
	Breed        string   `json:"breed" form:"breed"`
	Age          int      `json:"age" form:"age"`
	Size         string   `json:"size" form:"size" binding:"required"`
	Gender       string   `json:"gender" form:"gender" binding:"required"`
	Description  string   `json:"description" form:"description"`
	IsVaccinated bool     `json:"isVaccinated" form:"isVaccinated"`
	IsNeutered   bool     `json:"isNeutered" form:"isNeutered"`
	Photos       []string `json:"photos" form:"photoUrls"`
}

// UpdatePetRequest is the request DTO for a partial pet update. Availability
// and ownership cannot be changed through it.
type UpdatePetRequest struct {
	Name         *string   `json:"name" form:"name"`
	Species      *string   `json:"species" form:"species"`
	Breed        *string   `json:"breed" form:"breed"`
	Age          *int      `json:"age" form:"age"`
	Size         *string   `json:"size" form:"size"`
	Gender       *string   `json:"gender" form:"gender"`
	Description  *string   `json:"description" form:"description"`
	IsVaccinated *bool     `json:"isVaccinated" form:"isVaccinated"`
	IsNeutered   *bool     `json:"isNeutered" form:"isNeutered"`
	Photos       *[]string `json:"photos" form:"photoUrls"`
}

// ListPetsQuery holds the optional listing filters. Empty strings and a nil
// IsAvailable impose no constraint.
type ListPetsQuery struct {
	Page        int
	Limit       int
	Species     string
	Size        string
	Gender      string
	IsAvailable *bool
}

// PetService is the pet registry.
type PetService struct {
	pets         petDomain.PetRepository
	institutions institution.InstitutionRepository
	ledger       *StatusService
	photos       *PhotoService
	tx           database.Transactor
	publisher    EventPublisher
	recorder     Recorder
	logger       *zap.Logger
}

// NewPetService creates a new PetService. publisher and recorder may be nil.
func NewPetService(
	pets petDomain.PetRepository,
	institutions institution.InstitutionRepository,
	ledger *StatusService,
	photos *PhotoService,
	tx database.Transactor,
	publisher EventPublisher,
	recorder Recorder,
	logger *zap.Logger,
) *PetService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &PetService{
		pets:         pets,
		institutions: institutions,
		ledger:       ledger,
		photos:       photos,
		tx:           tx,
		publisher:    publisher,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create registers a pet for the calling institution together with its
// initial AVAILABLE status event.
func (s *PetService) Create(ctx context.Context, p principal.Principal, req CreatePetRequest, uploads []*photoDomain.Upload) (*PetDTO, error) {
	if err := principal.AuthorizeOwnership(p, p.ID); err != nil {
		return nil, err
	}

	attrs, err := createAttributes(req)
	if err != nil {
		return nil, err
	}
	// Validate before uploading anything.
	if _, err := petDomain.NewPet(p.ID, attrs); err != nil {
		return nil, err
	}

	urls, err := s.uploadPhotos(ctx, uploads)
	if err != nil {
		return nil, err
	}
	attrs.Photos = append(attrs.Photos, urls...)

	pet, err := petDomain.NewPet(p.ID, attrs)
	if err != nil {
		return nil, err
	}

	var initial *status.Event
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.pets.Save(ctx, pet); err != nil {
			return err
		}
		evt, err := s.ledger.recordInitial(ctx, pet)
		if err != nil {
			return err
		}
		initial = evt
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create pet", zap.Error(err))
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	s.recorder.PetCreated()
	s.logger.Info("pet created",
		zap.String("pet_id", pet.ID().String()),
		zap.String("institution_id", p.ID.String()),
	)
	publishEvent(ctx, s.publisher, s.logger, schema.PetCreated, pet.ID().String(), schema.PetCreatedEvent{
		PetID:         pet.ID(),
		InstitutionID: pet.InstitutionID(),
		Name:          pet.Name(),
		Species:       string(pet.Species()),
		IsAvailable:   pet.IsAvailable(),
		OccurredAt:    pet.CreatedAt(),
	})
	s.ledger.afterAppend(ctx, initial)

	result := toPetDTO(pet)
	return &result, nil
}

// List returns one page of pets matching the query, newest first.
func (s *PetService) List(ctx context.Context, q ListPetsQuery) (*domain.PaginatedResult[PetDTO], error) {
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter, domain.PageRequest{Page: q.Page, Limit: q.Limit})
}

func (s *PetService) list(ctx context.Context, filter petDomain.Filter, page domain.PageRequest) (*domain.PaginatedResult[PetDTO], error) {
	page = page.Normalize()
	pets, total, err := s.pets.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	dtos := make([]PetDTO, len(pets))
	ids := make([]uuid.UUID, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
		ids[i] = p.InstitutionID()
	}
	if len(ids) > 0 {
		found, err := s.institutions.FindByIDs(ctx, uniqueIDs(ids))
		if err != nil {
			s.logger.Warn("failed to load institution summaries", zap.Error(err))
		} else {
			for i := range dtos {
				dtos[i].Institution = toInstitutionSummary(found[dtos[i].InstitutionID], false)
			}
		}
	}

	result := domain.NewPaginatedResult(dtos, total, page.Page, page.Limit)
	return &result, nil
}

// GetByID returns a pet with its institution's full public summary.
func (s *PetService) GetByID(ctx context.Context, id uuid.UUID) (*PetDTO, error) {
	pet, err := s.pets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toPetDTO(pet)
	inst, err := s.institutions.FindByID(ctx, pet.InstitutionID())
	switch {
	case err == nil:
		result.Institution = toInstitutionSummary(inst, true)
	case domain.KindOf(err) != domain.KindNotFound:
		s.logger.Warn("failed to load institution summary",
			zap.String("pet_id", id.String()),
			zap.Error(err),
		)
	}
	return &result, nil
}

// Update applies a partial change to a pet owned by the caller. Uploaded
// photos are appended after any photo list given in req.
func (s *PetService) Update(ctx context.Context, p principal.Principal, id uuid.UUID, req UpdatePetRequest, uploads []*photoDomain.Upload) (*PetDTO, error) {
	pet, err := s.pets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := principal.AuthorizeOwnership(p, pet.InstitutionID()); err != nil {
		return nil, err
	}

	changes, err := toChanges(req)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() && len(uploads) == 0 {
		result := toPetDTO(pet)
		return &result, nil
	}

	// Validate the attribute changes on a copy before uploading.
	draft := petDomain.Reconstruct(pet.ID(), pet.InstitutionID(), pet.Attributes(), pet.IsAvailable(), pet.Version(), pet.CreatedAt(), pet.UpdatedAt())
	if err := draft.Apply(changes); err != nil {
		return nil, err
	}

	if len(uploads) > 0 {
		urls, err := s.uploadPhotos(ctx, uploads)
		if err != nil {
			return nil, err
		}
		base := pet.Photos()
		if changes.PhotosSet {
			base = changes.Photos
		}
		changes.Photos = append(append([]string{}, base...), urls...)
		changes.PhotosSet = true
	}

	if err := pet.Apply(changes); err != nil {
		return nil, err
	}
	if err := s.pets.Update(ctx, pet); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, err
		}
		s.logger.Error("failed to update pet", zap.Error(err))
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}

	s.logger.Info("pet updated",
		zap.String("pet_id", id.String()),
		zap.String("institution_id", p.ID.String()),
	)
	publishEvent(ctx, s.publisher, s.logger, schema.PetUpdated, id.String(), schema.PetUpdatedEvent{
		PetID:         pet.ID(),
		InstitutionID: pet.InstitutionID(),
		Version:       pet.Version(),
		OccurredAt:    pet.UpdatedAt(),
	})

	result := toPetDTO(pet)
	return &result, nil
}

// Delete removes a pet owned by the caller along with its status history.
func (s *PetService) Delete(ctx context.Context, p principal.Principal, id uuid.UUID) error {
	pet, err := s.pets.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := principal.AuthorizeOwnership(p, pet.InstitutionID()); err != nil {
		return err
	}

	if err := s.pets.Delete(ctx, id); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return err
		}
		s.logger.Error("failed to delete pet", zap.Error(err))
		return fmt.Errorf("failed to delete pet: %w", err)
	}

	s.logger.Info("pet deleted",
		zap.String("pet_id", id.String()),
		zap.String("institution_id", p.ID.String()),
	)
	publishEvent(ctx, s.publisher, s.logger, schema.PetDeleted, id.String(), schema.PetDeletedEvent{
		PetID:         id,
		InstitutionID: pet.InstitutionID(),
		OccurredAt:    time.Now().UTC(),
	})
	return nil
}

// ListMine lists the calling institution's own pets.
func (s *PetService) ListMine(ctx context.Context, p principal.Principal, q ListPetsQuery) (*domain.PaginatedResult[PetDTO], error) {
	if err := principal.AuthorizeOwnership(p, p.ID); err != nil {
		return nil, err
	}
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}
	filter.InstitutionID = &p.ID
	return s.list(ctx, filter, domain.PageRequest{Page: q.Page, Limit: q.Limit})
}

// Stats counts the calling institution's pets by current availability.
func (s *PetService) Stats(ctx context.Context, p principal.Principal) (*InstitutionStatsDTO, error) {
	if err := principal.AuthorizeOwnership(p, p.ID); err != nil {
		return nil, err
	}
	counts, err := s.pets.CountByAvailability(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &InstitutionStatsDTO{
		Total:       counts[true] + counts[false],
		Available:   counts[true],
		Unavailable: counts[false],
	}, nil
}

func (s *PetService) uploadPhotos(ctx context.Context, uploads []*photoDomain.Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if s.photos == nil {
		return nil, domain.NewValidationError("photo uploads are not supported")
	}
	return s.photos.Upload(ctx, uploads)
}

// --- Request parsing ---

func createAttributes(req CreatePetRequest) (petDomain.Attributes, error) {
	species, err := petDomain.ParseSpecies(req.Species)
	if err != nil {
		return petDomain.Attributes{}, err
	}
	size, err := petDomain.ParseSize(req.Size)
	if err != nil {
		return petDomain.Attributes{}, err
	}
	gender, err := petDomain.ParseGender(req.Gender)
	if err != nil {
		return petDomain.Attributes{}, err
	}
	return petDomain.Attributes{
		Name:         req.Name,
		Species:      species,
		Breed:        req.Breed,
		Age:          req.Age,
		Size:         size,
		Gender:       gender,
		Description:  req.Description,
		IsVaccinated: req.IsVaccinated,
		IsNeutered:   req.IsNeutered,
		Photos:       append([]string{}, req.Photos...),
	}, nil
}

func toChanges(req UpdatePetRequest) (petDomain.Changes, error) {
	c := petDomain.Changes{
		Name:         req.Name,
		Breed:        req.Breed,
		Age:          req.Age,
		Description:  req.Description,
		IsVaccinated: req.IsVaccinated,
		IsNeutered:   req.IsNeutered,
	}
	if req.Species != nil {
		v, err := petDomain.ParseSpecies(*req.Species)
		if err != nil {
			return c, err
		}
		c.Species = &v
	}
	if req.Size != nil {
		v, err := petDomain.ParseSize(*req.Size)
		if err != nil {
			return c, err
		}
		c.Size = &v
	}
	if req.Gender != nil {
		v, err := petDomain.ParseGender(*req.Gender)
		if err != nil {
			return c, err
		}
		c.Gender = &v
	}
	if req.Photos != nil {
		c.Photos = append([]string{}, (*req.Photos)...)
		c.PhotosSet = true
	}
	return c, nil
}

func toFilter(q ListPetsQuery) (petDomain.Filter, error) {
	var f petDomain.Filter
	if q.Species != "" {
		v, err := petDomain.ParseSpecies(q.Species)
		if err != nil {
			return f, err
		}
		f.Species = &v
	}
	if q.Size != "" {
		v, err := petDomain.ParseSize(q.Size)
		if err != nil {
			return f, err
		}
		f.Size = &v
	}
	if q.Gender != "" {
		v, err := petDomain.ParseGender(q.Gender)
		if err != nil {
			return f, err
		}
		f.Gender = &v
	}
	f.IsAvailable = q.IsAvailable
	return f, nil
}
