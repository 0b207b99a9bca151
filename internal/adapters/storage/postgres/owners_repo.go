package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

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

// isUniqueViolation detecta el choque contra los índices únicos parciales
// (SQLSTATE 23505): dos registros concurrentes pueden pasar el check del
// service y el índice es quien corta el segundo INSERT.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) (owners.Owner, error) {
	err := r.db.q(ctx).QueryRowContext(ctx, `
		INSERT INTO owners (
			username, first_name, last_name, email, password_hash,
			phone, province, city, role, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id
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
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return owners.Owner{}, owners.ErrConflict
		}
		return owners.Owner{}, err
	}
	return o, nil
}

func (r *OwnersRepo) GetByID(ctx context.Context, id int64) (owners.Owner, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE id = $1
	`, id)
	return scanOwner(row)
}

// GetByEmail solo ve cuentas activas: una baja lógica libera el email.
func (r *OwnersRepo) GetByEmail(ctx context.Context, email string) (owners.Owner, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE email = $1 AND active
	`, email)
	return scanOwner(row)
}

func (r *OwnersRepo) GetByUsername(ctx context.Context, username string) (owners.Owner, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE username = $1 AND active
	`, username)
	return scanOwner(row)
}

func (r *OwnersRepo) List(ctx context.Context, includeInactive bool) ([]owners.Owner, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+ownerColumns+`
		FROM owners
		WHERE active OR $1
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
			username = $2,
			first_name = $3,
			last_name = $4,
			email = $5,
			password_hash = $6,
			phone = $7,
			province = $8,
			city = $9,
			role = $10,
			active = $11,
			updated_at = $12
		WHERE id = $1
	`,
		o.ID,
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

// SoftDelete apaga la cuenta; repetirlo no afecta filas y no es error.
func (r *OwnersRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE owners SET active = FALSE WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// distinguir "no existe" de "ya estaba de baja"
		var exists bool
		if err := r.db.q(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM owners WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}
