package sightings

import "context"

type Repository interface {
	// Create asigna el id y persiste.
	Create(ctx context.Context, s Sighting) (Sighting, error)

	// GetByID devuelve el avistamiento aunque esté inactivo.
	GetByID(ctx context.Context, id int64) (Sighting, error)

	// Los listados ordenan por fecha de avistamiento descendente (el más
	// reciente primero); por defecto excluyen inactivos.
	ListByPet(ctx context.Context, petID int64, includeInactive bool) ([]Sighting, error)

	// ListByOwner devuelve los reportes hechos por un usuario.
	ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]Sighting, error)

	List(ctx context.Context, includeInactive bool) ([]Sighting, error)

	// Update reemplaza el registro completo.
	Update(ctx context.Context, s Sighting) (Sighting, error)

	// SoftDelete marca activo=false; idempotente.
	SoftDelete(ctx context.Context, id int64) error

	// SoftDeleteByPet da de baja todos los avistamientos activos de una
	// mascota y devuelve cuántos tocó. Es la cascada de recuperación.
	SoftDeleteByPet(ctx context.Context, petID int64) (int, error)

	// CountActive cuenta los avistamientos activos (dashboard).
	CountActive(ctx context.Context) (int, error)
}
