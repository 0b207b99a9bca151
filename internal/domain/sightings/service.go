package sightings

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("sighting not found")
	ErrInvalidReference = errors.New("invalid reference")
)

// Linker valida y fija las dos puntas del avistamiento (reportero y
// mascota). Lo implementa el Relationship Manager.
type Linker interface {
	LinkSighting(ctx context.Context, ownerID, petID int64, s *Sighting) error
	RelinkSighting(ctx context.Context, ownerID, petID int64, s *Sighting) error
}

type Service struct {
	repo   Repository
	linker Linker
	now    func() time.Time
}

func NewService(repo Repository, linker Linker) *Service {
	return &Service{
		repo:   repo,
		linker: linker,
		now:    time.Now,
	}
}

type CreateInput struct {
	Coordinates string
	Description string
	Photos      []string
	SightedOn   *time.Time
}

// Create registra un avistamiento de una mascota. Cualquier usuario activo
// puede reportar sobre cualquier mascota activa.
func (s *Service) Create(ctx context.Context, ownerID, petID int64, in CreateInput) (Sighting, error) {
	if strings.TrimSpace(in.Coordinates) == "" {
		return Sighting{}, ErrInvalidInput
	}

	now := s.now()
	sightedOn := now
	if in.SightedOn != nil {
		sightedOn = *in.SightedOn
	}

	sig := Sighting{
		Coordinates: strings.TrimSpace(in.Coordinates),
		Description: strings.TrimSpace(in.Description),
		Photos:      in.Photos,
		SightedOn:   sightedOn,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.linker.LinkSighting(ctx, ownerID, petID, &sig); err != nil {
		return Sighting{}, err
	}

	return s.repo.Create(ctx, sig)
}

// CreateInitial sintetiza el avistamiento que acompaña al alta de una
// mascota encontrada sin dueño conocido. Lo invoca el ciclo de vida de
// mascotas, no un usuario.
func (s *Service) CreateInitial(ctx context.Context, ownerID, petID int64, coordinates, description string, photos []string) error {
	now := s.now()

	sig := Sighting{
		Coordinates: strings.TrimSpace(coordinates),
		Description: strings.TrimSpace(description),
		Photos:      photos,
		SightedOn:   now,
		Initial:     true,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.linker.LinkSighting(ctx, ownerID, petID, &sig); err != nil {
		return err
	}

	_, err := s.repo.Create(ctx, sig)
	return err
}

func (s *Service) GetByID(ctx context.Context, id int64) (Sighting, error) {
	sig, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Sighting{}, ErrNotFound
	}
	return sig, nil
}

func (s *Service) ListByPet(ctx context.Context, petID int64, includeInactive bool) ([]Sighting, error) {
	return s.repo.ListByPet(ctx, petID, includeInactive)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]Sighting, error) {
	return s.repo.ListByOwner(ctx, ownerID, includeInactive)
}

type UpdateInput struct {
	// Punteros: nil = no tocar el campo.
	Coordinates *string
	Description *string
	Photos      *[]string
	SightedOn   *time.Time

	// Reasignaciones de puntas; pasan por el Relationship Manager.
	OwnerID *int64
	PetID   *int64
}

// Update reemplaza el registro completo. Cambiar reportero o mascota exige
// que la nueva punta exista y esté activa.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Sighting, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Sighting{}, ErrNotFound
	}
	if !current.Active {
		return Sighting{}, ErrNotFound
	}

	if in.Coordinates != nil {
		if strings.TrimSpace(*in.Coordinates) == "" {
			return Sighting{}, ErrInvalidInput
		}
		current.Coordinates = strings.TrimSpace(*in.Coordinates)
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.Photos != nil {
		current.Photos = *in.Photos
	}
	if in.SightedOn != nil {
		current.SightedOn = *in.SightedOn
	}

	if in.OwnerID != nil || in.PetID != nil {
		newOwner := current.OwnerID
		if in.OwnerID != nil {
			newOwner = *in.OwnerID
		}
		newPet := current.PetID
		if in.PetID != nil {
			newPet = *in.PetID
		}
		if err := s.linker.RelinkSighting(ctx, newOwner, newPet, &current); err != nil {
			return Sighting{}, err
		}
	}

	current.UpdatedAt = s.now()
	return s.repo.Update(ctx, current)
}

// Deactivate es el borrado lógico. Repetirlo no es error.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

// DeactivateByPet da de baja todos los avistamientos activos de la mascota.
// Es la cascada que dispara la transición a recovered.
func (s *Service) DeactivateByPet(ctx context.Context, petID int64) (int, error) {
	return s.repo.SoftDeleteByPet(ctx, petID)
}
