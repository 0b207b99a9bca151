package postgres

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
	err := r.db.q(ctx).QueryRowContext(ctx, `
		INSERT INTO sightings (
			owner_id, pet_id, coordinates, description, photos,
			sighted_on, initial, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
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
	).Scan(&s.ID)
	if err != nil {
		return sightings.Sighting{}, err
	}
	return s, nil
}

func (r *SightingsRepo) GetByID(ctx context.Context, id int64) (sightings.Sighting, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+sightingColumns+`
		FROM sightings
		WHERE id = $1
	`, id)
	return scanSighting(row)
}

func (r *SightingsRepo) ListByPet(ctx context.Context, petID int64, includeInactive bool) ([]sightings.Sighting, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+sightingColumns+`
		FROM sightings
		WHERE pet_id = $1 AND (active OR $2)
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
		WHERE owner_id = $1 AND (active OR $2)
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
		WHERE active OR $1
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
			owner_id = $2,
			pet_id = $3,
			coordinates = $4,
			description = $5,
			photos = $6,
			sighted_on = $7,
			active = $8,
			updated_at = $9
		WHERE id = $1
	`,
		s.ID,
		s.OwnerID,
		s.PetID,
		s.Coordinates,
		s.Description,
		encodePhotos(s.Photos),
		s.SightedOn,
		s.Active,
		s.UpdatedAt,
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
		UPDATE sightings SET active = FALSE WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := r.db.q(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM sightings WHERE id = $1)`, id,
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
		UPDATE sightings SET active = FALSE WHERE pet_id = $1 AND active
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
		SELECT COUNT(*) FROM sightings WHERE active
	`).Scan(&n)
	return n, err
}
