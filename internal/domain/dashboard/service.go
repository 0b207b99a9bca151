package dashboard

import (
	"context"

	"pet-alert/internal/domain/pets"
	"pet-alert/internal/domain/sightings"
)

// Stats resume el estado del sitio para la pantalla de inicio.
type Stats struct {
	Lost             int `json:"lost"`
	Recovered        int `json:"recovered"`
	Adopted          int `json:"adopted"`
	PendingSightings int `json:"pending_sightings"`
}

type Service struct {
	pets      pets.Repository
	sightings sightings.Repository
}

func NewService(petRepo pets.Repository, sightingRepo sightings.Repository) *Service {
	return &Service{pets: petRepo, sightings: sightingRepo}
}

// Stats cuenta solo registros activos: las bajas lógicas no aparecen.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	lostOwn, err := s.pets.CountByStatus(ctx, pets.StatusLostOwn)
	if err != nil {
		return Stats{}, err
	}
	lostOther, err := s.pets.CountByStatus(ctx, pets.StatusLostOther)
	if err != nil {
		return Stats{}, err
	}
	recovered, err := s.pets.CountByStatus(ctx, pets.StatusRecovered)
	if err != nil {
		return Stats{}, err
	}
	adopted, err := s.pets.CountByStatus(ctx, pets.StatusAdopted)
	if err != nil {
		return Stats{}, err
	}
	pending, err := s.sightings.CountActive(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Lost:             lostOwn + lostOther,
		Recovered:        recovered,
		Adopted:          adopted,
		PendingSightings: pending,
	}, nil
}
