package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
)

// RegisterUserRequest is the request DTO for creating an adopter account.
type RegisterUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	NationalID string `json:"nationalId" binding:"required"`
	Password   string `json:"password" binding:"required"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	Address    string `json:"address"`
}

// RegisterInstitutionRequest is the request DTO for creating an institution account.
type RegisterInstitutionRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	TaxID           string   `json:"taxId" binding:"required"`
	Password        string   `json:"password" binding:"required"`
	ResponsibleName string   `json:"responsibleName"`
	Kind            string   `json:"kind" binding:"required"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	ZipCode         string   `json:"zipCode"`
	Address         string   `json:"address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// LoginRequest is the request DTO for both login endpoints.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(subject uuid.UUID, kind principal.Kind) (string, error)
}

// CredentialService registers and authenticates users and institutions.
type CredentialService struct {
	users        user.UserRepository
	institutions institution.InstitutionRepository
	hasher       PasswordHasher
	tokens       TokenIssuer
	logger       *zap.Logger
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(
	users user.UserRepository,
	institutions institution.InstitutionRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger *zap.Logger,
) *CredentialService {
	return &CredentialService{
		users:        users,
		institutions: institutions,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger,
	}
}

// RegisterUser creates an adopter account.
func (s *CredentialService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*UserDTO, error) {
	if req.Password == "" {
		return nil, domain.NewValidationError("password is required")
	}

	taken, err := s.users.ExistsByEmailOrNationalID(ctx, req.Email, strings.TrimSpace(req.NationalID))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewDuplicateIdentityError("email or national id already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(user.Profile{
		Name:       req.Name,
		Email:      req.Email,
		NationalID: req.NationalID,
		City:       req.City,
		State:      req.State,
		ZipCode:    req.ZipCode,
		Address:    req.Address,
	}, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, u); err != nil {
		if domain.KindOf(err) == domain.KindDuplicateIdentity {
			return nil, domain.NewDuplicateIdentityError("email or national id already registered")
		}
		s.logger.Error("failed to save user", zap.Error(err))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	result := toUserDTO(u)
	return &result, nil
}

// RegisterInstitution creates an institution account. The kind is checked
// before uniqueness.
func (s *CredentialService) RegisterInstitution(ctx context.Context, req RegisterInstitutionRequest) (*InstitutionDTO, error) {
	kind, err := institution.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, domain.NewValidationError("password is required")
	}

	taken, err := s.institutions.ExistsByEmailOrTaxID(ctx, req.Email, strings.TrimSpace(req.TaxID))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewDuplicateIdentityError("email or tax id already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	inst, err := institution.NewInstitution(institution.Profile{
		Name:            req.Name,
		Email:           req.Email,
		TaxID:           req.TaxID,
		ResponsibleName: req.ResponsibleName,
		Kind:            kind,
		Location: institution.Location{
			City:      req.City,
			State:     req.State,
			ZipCode:   req.ZipCode,
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
	}, hash)
	if err != nil {
		return nil, err
	}

	if err := s.institutions.Save(ctx, inst); err != nil {
		if domain.KindOf(err) == domain.KindDuplicateIdentity {
			return nil, domain.NewDuplicateIdentityError("email or tax id already registered")
		}
		s.logger.Error("failed to save institution", zap.Error(err))
		return nil, fmt.Errorf("failed to register institution: %w", err)
	}

	s.logger.Info("institution registered",
		zap.String("institution_id", inst.ID().String()),
		zap.String("kind", string(kind)),
	)
	result := toInstitutionDTO(inst)
	return &result, nil
}

// AuthenticateUser verifies a user's credential and issues a token. Unknown
// email and wrong password fail identically.
func (s *CredentialService) AuthenticateUser(ctx context.Context, req LoginRequest) (*UserSession, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			return nil, err
		}
		s.hasher.CompareDummy(req.Password)
		return nil, domain.NewInvalidCredentialsError()
	}
	if !s.hasher.Compare(u.PasswordHash(), req.Password) {
		return nil, domain.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(u.ID(), principal.KindUser)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return userSessionDTO(u, token), nil
}

// AuthenticateInstitution verifies an institution's credential and issues a token.
func (s *CredentialService) AuthenticateInstitution(ctx context.Context, req LoginRequest) (*InstitutionSession, error) {
	inst, err := s.institutions.FindByEmail(ctx, req.Email)
	if err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			return nil, err
		}
		s.hasher.CompareDummy(req.Password)
		return nil, domain.NewInvalidCredentialsError()
	}
	if !s.hasher.Compare(inst.PasswordHash(), req.Password) {
		return nil, domain.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(inst.ID(), principal.KindInstitution)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return institutionSessionDTO(inst, token), nil
}
