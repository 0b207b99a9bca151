package sqlite

import (
	"context"
	"database/sql"

	"pet-alert/internal/domain/sightings"
)

type SightingsRepo struct {
	db *DB
}

func NewSightingsRepo(db *DB) *SightingsRepo {
	return &SightingsRepo{db: db}
}

const sightingColumns = `
	id, owner_id, pet_id, coordinates, description, photos,
	sighted_on, initial, active, created_at, updated_at`

func scanSighting(row interface{ Scan(...any) error }) (sightings.Sighting, error) {
	var s sightings.Sighting
	var photos string
	if err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.PetID,
		&s.Coordinates,
		&s.Description,
		&photos,
		&s.SightedOn,
		&s.Initial,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return sightings.Sighting{}, ErrNotFound
		}
		return sightings.Sighting{}, err
	}
	s.Photos = decodePhotos(photos)
	return s, nil
}

func (r *SightingsRepo) Create(ctx context.Context, s sightings.Sighting) (sightings.Sighting, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		INSERT INTO sightings (
			owner_id, pet_id, coordinates, description, photos,
			sighted_on, initial, active, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		s.OwnerID,
		s.PetID,
		s.Coordinates,
		s.Description,
		encodePhotos(s.Photos),
		s.SightedOn,
		s.Initial,
		s.Active,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return sightings.Sighting{}, err
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return sightings.Sighting{}, err
	}
	return s, nil
}

func (r *SightingsRepo) GetByID(ctx context.Context, id int64) (sightings.Sighting, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+sightingColumns+`
		FROM sightings
		WHERE id = ?
	`, id)
	return scanSighting(row)
}

func (r *SightingsRepo) ListByPet(ctx context.Context, petID int64, includeInactive bool) ([]sightings.Sighting, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+sightingColumns+`
		FROM sightings
		WHERE pet_id = ? AND (active = 1 OR ? = 1)
		ORDER BY sighted_on DESC, id DESC
	`, petID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSightings(rows)
}

func (r *SightingsRepo) ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]sightings.Sighting, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+sightingColumns+`
		FROM sightings
		WHERE owner_id = ? AND (active = 1 OR ? = 1)
		ORDER BY sighted_on DESC, id DESC
	`, ownerID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSightings(rows)
}

func (r *SightingsRepo) List(ctx context.Context, includeInactive bool) ([]sightings.Sighting, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+sightingColumns+`
		FROM sightings
		WHERE active = 1 OR ? = 1
		ORDER BY sighted_on DESC, id DESC
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSightings(rows)
}

func collectSightings(rows *sql.Rows) ([]sightings.Sighting, error) {
	out := make([]sightings.Sighting, 0)
	for rows.Next() {
		s, err := scanSighting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SightingsRepo) Update(ctx context.Context, s sightings.Sighting) (sightings.Sighting, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE sightings
		SET
			owner_id = ?,
			pet_id = ?,
			coordinates = ?,
			description = ?,
			photos = ?,
			sighted_on = ?,
			active = ?,
			updated_at = ?
		WHERE id = ?
	`,
		s.OwnerID,
		s.PetID,
		s.Coordinates,
		s.Description,
		encodePhotos(s.Photos),
		s.SightedOn,
		s.Active,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return sightings.Sighting{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sightings.Sighting{}, ErrNotFound
	}
	return s, nil
}

func (r *SightingsRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE sightings SET active = 0 WHERE id = ? AND active = 1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := r.db.q(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM sightings WHERE id = ?)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

// SoftDeleteByPet es la cascada de recuperación: un solo UPDATE apaga todos
// los avistamientos activos de la mascota.
func (r *SightingsRepo) SoftDeleteByPet(ctx context.Context, petID int64) (int, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE sightings SET active = 0 WHERE pet_id = ? AND active = 1
	`, petID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *SightingsRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sightings WHERE active = 1
	`).Scan(&n)
	return n, err
}
