package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
)

// UserRepository implements user.UserRepository.
type UserRepository struct{ s *Store }

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u *user.User
	r.s.read(ctx, func() { u = r.s.users[id] })
	if u == nil {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	var found *user.User
	r.s.read(ctx, func() {
		for _, u := range r.s.users {
			if u.Email() == email {
				found = u
				return
			}
		}
	})
	if found == nil {
		return nil, domain.NewNotFoundError("User", email)
	}
	return found, nil
}

func (r *UserRepository) ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error) {
	var exists bool
	r.s.read(ctx, func() { exists = r.s.userTaken(user.NormalizeEmail(email), nationalID) })
	return exists, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return r.s.write(ctx, func() error {
		if r.s.userTaken(u.Email(), u.NationalID()) {
			return domain.NewDuplicateIdentityError("user already exists")
		}
		r.s.users[u.ID()] = u
		return nil
	})
}

func (s *Store) userTaken(email, nationalID string) bool {
	for _, u := range s.users {
		if u.Email() == email || u.NationalID() == nationalID {
			return true
		}
	}
	return false
}

// InstitutionRepository implements institution.InstitutionRepository.
type InstitutionRepository struct{ s *Store }

func (r *InstitutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*institution.Institution, error) {
	var inst *institution.Institution
	r.s.read(ctx, func() { inst = r.s.institutions[id] })
	if inst == nil {
		return nil, domain.NewNotFoundError("Institution", id.String())
	}
	return inst, nil
}

func (r *InstitutionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*institution.Institution, error) {
	out := make(map[uuid.UUID]*institution.Institution, len(ids))
	r.s.read(ctx, func() {
		for _, id := range ids {
			if inst, ok := r.s.institutions[id]; ok {
				out[id] = inst
			}
		}
	})
	return out, nil
}

func (r *InstitutionRepository) FindByEmail(ctx context.Context, email string) (*institution.Institution, error) {
	email = user.NormalizeEmail(email)
	var found *institution.Institution
	r.s.read(ctx, func() {
		for _, inst := range r.s.institutions {
			if inst.Email() == email {
				found = inst
				return
			}
		}
	})
	if found == nil {
		return nil, domain.NewNotFoundError("Institution", email)
	}
	return found, nil
}

func (r *InstitutionRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	r.s.read(ctx, func() { _, ok = r.s.institutions[id] })
	return ok, nil
}

func (r *InstitutionRepository) ExistsByEmailOrTaxID(ctx context.Context, email, taxID string) (bool, error) {
	var exists bool
	r.s.read(ctx, func() { exists = r.s.institutionTaken(user.NormalizeEmail(email), taxID) })
	return exists, nil
}

func (r *InstitutionRepository) Save(ctx context.Context, inst *institution.Institution) error {
	return r.s.write(ctx, func() error {
		if r.s.institutionTaken(inst.Email(), inst.TaxID()) {
			return domain.NewDuplicateIdentityError("institution already exists")
		}
		r.s.institutions[inst.ID()] = inst
		return nil
	})
}

func (s *Store) institutionTaken(email, taxID string) bool {
	for _, inst := range s.institutions {
		if inst.Email() == email || inst.TaxID() == taxID {
			return true
		}
	}
	return false
}
