package owners

import "context"

type Repository interface {
	// Create asigna el id y persiste. El Owner vuelve con id.
	Create(ctx context.Context, o Owner) (Owner, error)

	// GetByID devuelve la cuenta aunque esté inactiva (borrado lógico).
	GetByID(ctx context.Context, id int64) (Owner, error)

	// GetByEmail y GetByUsername buscan solo entre cuentas activas:
	// una cuenta borrada libera su email y nombre de usuario.
	GetByEmail(ctx context.Context, email string) (Owner, error)
	GetByUsername(ctx context.Context, username string) (Owner, error)

	// List ordena por id ascendente. Por defecto excluye inactivas.
	List(ctx context.Context, includeInactive bool) ([]Owner, error)

	// Update reemplaza el registro completo.
	Update(ctx context.Context, o Owner) (Owner, error)

	// SoftDelete marca activo=false. Idempotente: borrar dos veces no es error.
	SoftDelete(ctx context.Context, id int64) error
}
