package memory

import (
	"context"

	"pet-alert/internal/domain/owners"
)

type ownerRepo struct {
	col *SoftCollection[owners.Owner]
}

func NewOwnerRepo(s *Store) owners.Repository {
	return &ownerRepo{col: s.Owners}
}

func (r *ownerRepo) Create(ctx context.Context, o owners.Owner) (owners.Owner, error) {
	return r.col.Insert(o), nil
}

func (r *ownerRepo) GetByID(ctx context.Context, id int64) (owners.Owner, error) {
	return r.col.Get(id)
}

// GetByEmail solo ve cuentas activas: una baja lógica libera el email.
func (r *ownerRepo) GetByEmail(ctx context.Context, email string) (owners.Owner, error) {
	matches := r.col.SelectActive(false, func(o owners.Owner) bool {
		return o.Email == email
	})
	if len(matches) == 0 {
		return owners.Owner{}, ErrNotFound
	}
	return matches[0], nil
}

func (r *ownerRepo) GetByUsername(ctx context.Context, username string) (owners.Owner, error) {
	matches := r.col.SelectActive(false, func(o owners.Owner) bool {
		return o.Username == username
	})
	if len(matches) == 0 {
		return owners.Owner{}, ErrNotFound
	}
	return matches[0], nil
}

func (r *ownerRepo) List(ctx context.Context, includeInactive bool) ([]owners.Owner, error) {
	return r.col.SelectActive(includeInactive, nil), nil
}

func (r *ownerRepo) Update(ctx context.Context, o owners.Owner) (owners.Owner, error) {
	return r.col.Replace(o)
}

func (r *ownerRepo) SoftDelete(ctx context.Context, id int64) error {
	return r.col.SoftDelete(id)
}
