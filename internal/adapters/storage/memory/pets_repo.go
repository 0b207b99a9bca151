package memory

import (
	"context"

	"pet-alert/internal/domain/pets"
)

type petRepo struct {
	col *SoftCollection[pets.Pet]
}

func NewPetRepo(s *Store) pets.Repository {
	return &petRepo{col: s.Pets}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	return r.col.Insert(p), nil
}

func (r *petRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	return r.col.Get(id)
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]pets.Pet, error) {
	return r.col.SelectActive(includeInactive, func(p pets.Pet) bool {
		return p.OwnerID == ownerID
	}), nil
}

func (r *petRepo) ListLost(ctx context.Context, orderBy string) ([]pets.Pet, error) {
	return r.col.SelectActiveOrdered(orderBy, false, func(p pets.Pet) bool {
		return p.Status == pets.StatusLostOwn || p.Status == pets.StatusLostOther
	})
}

func (r *petRepo) List(ctx context.Context, includeInactive bool) ([]pets.Pet, error) {
	return r.col.SelectActive(includeInactive, nil), nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	return r.col.Replace(p)
}

func (r *petRepo) SoftDelete(ctx context.Context, id int64) error {
	return r.col.SoftDelete(id)
}

func (r *petRepo) CountByStatus(ctx context.Context, status pets.Status) (int, error) {
	return r.col.Count(func(p pets.Pet) bool {
		return p.IsActive() && p.Status == status
	}), nil
}
