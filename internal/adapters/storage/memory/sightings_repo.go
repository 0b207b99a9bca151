package memory

import (
	"context"
	"sort"

	"pet-alert/internal/domain/sightings"
)

type sightingRepo struct {
	col *SoftCollection[sightings.Sighting]
}

func NewSightingRepo(s *Store) sightings.Repository {
	return &sightingRepo{col: s.Sightings}
}

func (r *sightingRepo) Create(ctx context.Context, s sightings.Sighting) (sightings.Sighting, error) {
	return r.col.Insert(s), nil
}

func (r *sightingRepo) GetByID(ctx context.Context, id int64) (sightings.Sighting, error) {
	return r.col.Get(id)
}

// Los listados de avistamientos salen del más reciente al más viejo por
// fecha de avistamiento; a igual fecha, el de id más alto primero.
func newestFirst(out []sightings.Sighting) []sightings.Sighting {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SightedOn.Equal(out[j].SightedOn) {
			return out[i].ID > out[j].ID
		}
		return out[i].SightedOn.After(out[j].SightedOn)
	})
	return out
}

func (r *sightingRepo) ListByPet(ctx context.Context, petID int64, includeInactive bool) ([]sightings.Sighting, error) {
	return newestFirst(r.col.SelectActive(includeInactive, func(s sightings.Sighting) bool {
		return s.PetID == petID
	})), nil
}

func (r *sightingRepo) ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]sightings.Sighting, error) {
	return newestFirst(r.col.SelectActive(includeInactive, func(s sightings.Sighting) bool {
		return s.OwnerID == ownerID
	})), nil
}

func (r *sightingRepo) List(ctx context.Context, includeInactive bool) ([]sightings.Sighting, error) {
	return newestFirst(r.col.SelectActive(includeInactive, nil)), nil
}

func (r *sightingRepo) Update(ctx context.Context, s sightings.Sighting) (sightings.Sighting, error) {
	return r.col.Replace(s)
}

func (r *sightingRepo) SoftDelete(ctx context.Context, id int64) error {
	return r.col.SoftDelete(id)
}

// SoftDeleteByPet recorre y apaga; devuelve cuántos tocó.
func (r *sightingRepo) SoftDeleteByPet(ctx context.Context, petID int64) (int, error) {
	targets := r.col.SelectActive(false, func(s sightings.Sighting) bool {
		return s.PetID == petID
	})
	for _, s := range targets {
		if err := r.col.SoftDelete(s.ID); err != nil {
			return 0, err
		}
	}
	return len(targets), nil
}

func (r *sightingRepo) CountActive(ctx context.Context) (int, error) {
	return r.col.Count(func(s sightings.Sighting) bool {
		return s.IsActive()
	}), nil
}
