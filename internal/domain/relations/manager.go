package relations

import (
	"context"

	"pet-alert/internal/domain/owners"
	"pet-alert/internal/domain/pets"
	"pet-alert/internal/domain/sightings"
)

// Manager es el único punto donde se crean o mueven relaciones entre
// registros. Valida que la punta destino exista y esté activa y fija la
// clave foránea; las listas inversas (mascotas de un dueño, avistamientos
// de una mascota) se derivan siempre por query, así la consistencia
// bidireccional sale por construcción.
//
// Implementa pets.OwnerLinker y sightings.Linker.
type Manager struct {
	owners owners.Repository
	pets   pets.Repository
}

func NewManager(ownerRepo owners.Repository, petRepo pets.Repository) *Manager {
	return &Manager{owners: ownerRepo, pets: petRepo}
}

// LinkPet cuelga una mascota de un dueño. El dueño debe existir y estar
// activo.
func (m *Manager) LinkPet(ctx context.Context, ownerID int64, p *pets.Pet) error {
	o, err := m.owners.GetByID(ctx, ownerID)
	if err != nil || !o.Active {
		return pets.ErrInvalidReference
	}
	p.OwnerID = ownerID
	return nil
}

// LinkSighting cuelga un avistamiento de un reportero y una mascota. Ambas
// puntas deben existir y estar activas.
func (m *Manager) LinkSighting(ctx context.Context, ownerID, petID int64, s *sightings.Sighting) error {
	o, err := m.owners.GetByID(ctx, ownerID)
	if err != nil || !o.Active {
		return sightings.ErrInvalidReference
	}
	p, err := m.pets.GetByID(ctx, petID)
	if err != nil || !p.Active {
		return sightings.ErrInvalidReference
	}
	s.OwnerID = ownerID
	s.PetID = petID
	return nil
}

// RelinkSighting mueve un avistamiento existente a otras puntas. Mismas
// reglas que el enlace inicial.
func (m *Manager) RelinkSighting(ctx context.Context, ownerID, petID int64, s *sightings.Sighting) error {
	return m.LinkSighting(ctx, ownerID, petID, s)
}
