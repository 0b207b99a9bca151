package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"

	"pet-alert/internal/domain/owners"
)

type OwnersRepo struct {
	db *DB
}

func NewOwnersRepo(db *DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

const ownerColumns = `
	id, username, first_name, last_name, email, password_hash,
	phone, province, city, role, active, created_at, updated_at`

func scanOwner(row interface{ Scan(...any) error }) (owners.Owner, error) {
	var o owners.Owner
	var role string
	if err := row.Scan(
		&o.ID,
		&o.Username,
		&o.FirstName,
		&o.LastName,
		&o.Email,
		&o.PasswordHash,
		&o.Phone,
		&o.Province,
		&o.City,
		&role,
		&o.Active,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return owners.Owner{}, ErrNotFound
		}
		return owners.Owner{}, err
	}
	o.Role = owners.Role(role)
	return o, nil
}

// isUniqueViolation detecta el choque contra los índices únicos parciales:
// dos registros concurrentes pueden pasar el check del service y el índice
// es quien corta el segundo INSERT. 2067 es SQLITE_CONSTRAINT_UNIQUE,
// 1555 la variante de clave primaria.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code() == 2067 || serr.Code() == 1555
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) (owners.Owner, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		INSERT INTO owners (
			username, first_name, last_name, email, password_hash,
			phone, province, city, role, active, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		o.Username,
		o.FirstName,
		o.LastName,
		o.Email,
		o.PasswordHash,
		o.Phone,
		o.Province,
		o.City,
		string(o.Role),
		o.Active,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return owners.Owner{}, owners.ErrConflict
		}
		return owners.Owner{}, err
	}
	o.ID, err = res.LastInsertId()
	if err != nil {
		return owners.Owner{}, err
	}
	return o, nil
}

func (r *OwnersRepo) GetByID(ctx context.Context, id int64) (owners.Owner, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE id = ?
	`, id)
	return scanOwner(row)
}

// GetByEmail solo ve cuentas activas: una baja lógica libera el email.
func (r *OwnersRepo) GetByEmail(ctx context.Context, email string) (owners.Owner, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE email = ? AND active = 1
	`, email)
	return scanOwner(row)
}

func (r *OwnersRepo) GetByUsername(ctx context.Context, username string) (owners.Owner, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE username = ? AND active = 1
	`, username)
	return scanOwner(row)
}

func (r *OwnersRepo) List(ctx context.Context, includeInactive bool) ([]owners.Owner, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE active = 1 OR ? = 1
		ORDER BY id ASC
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) (owners.Owner, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE owners
		SET
			username = ?,
			first_name = ?,
			last_name = ?,
			email = ?,
			password_hash = ?,
			phone = ?,
			province = ?,
			city = ?,
			role = ?,
			active = ?,
			updated_at = ?
		WHERE id = ?
	`,
		o.Username,
		o.FirstName,
		o.LastName,
		o.Email,
		o.PasswordHash,
		o.Phone,
		o.Province,
		o.City,
		string(o.Role),
		o.Active,
		o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		return owners.Owner{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return owners.Owner{}, ErrNotFound
	}
	return o, nil
}

func (r *OwnersRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE owners SET active = 0 WHERE id = ? AND active = 1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := r.db.q(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM owners WHERE id = ?)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}
