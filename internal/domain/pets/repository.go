package pets

import "context"

type Repository interface {
	// Create asigna el id y persiste. Falla si falta el dueño.
	Create(ctx context.Context, p Pet) (Pet, error)

	// GetByID devuelve la mascota aunque esté inactiva.
	GetByID(ctx context.Context, id int64) (Pet, error)

	// ListByOwner ordena por id ascendente; por defecto excluye inactivas.
	ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]Pet, error)

	// ListLost devuelve las mascotas activas en lost_own o lost_other,
	// ordenadas por la clave pedida (vacía = id) con empates por id.
	ListLost(ctx context.Context, orderBy string) ([]Pet, error)

	List(ctx context.Context, includeInactive bool) ([]Pet, error)

	// Update reemplaza el registro completo.
	Update(ctx context.Context, p Pet) (Pet, error)

	// SoftDelete marca activo=false; idempotente.
	SoftDelete(ctx context.Context, id int64) error

	// CountByStatus cuenta mascotas activas en un estado (dashboard).
	CountByStatus(ctx context.Context, status Status) (int, error)
}
