package sqlite

import (
	"context"
	"database/sql"

	"pet-alert/internal/domain/pets"
)

type PetsRepo struct {
	db *DB
}

func NewPetsRepo(db *DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_id, name, species, breed, size, color,
	coordinates, description, photos, status, reported_on,
	active, created_at, updated_at`

func scanPet(row interface{ Scan(...any) error }) (pets.Pet, error) {
	var p pets.Pet
	var size, status, photos string
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&size,
		&p.Color,
		&p.Coordinates,
		&p.Description,
		&photos,
		&status,
		&p.ReportedOn,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	p.Size = pets.Size(size)
	p.Status = pets.Status(status)
	p.Photos = decodePhotos(photos)
	return p, nil
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		INSERT INTO pets (
			owner_id, name, species, breed, size, color,
			coordinates, description, photos, status, reported_on,
			active, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		p.OwnerID,
		p.Name,
		p.Species,
		p.Breed,
		string(p.Size),
		p.Color,
		p.Coordinates,
		p.Description,
		encodePhotos(p.Photos),
		string(p.Status),
		p.ReportedOn,
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT`+petColumns+`
		FROM pets
		WHERE id = ?
	`, id)
	return scanPet(row)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]pets.Pet, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+petColumns+`
		FROM pets
		WHERE owner_id = ? AND (active = 1 OR ? = 1)
		ORDER BY id ASC
	`, ownerID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPets(rows)
}

// Claves de orden admitidas en ListLost, mapeadas a columnas por whitelist:
// el valor nunca se interpola directo en el SQL.
func lostOrderClause(orderBy string) string {
	switch orderBy {
	case "name":
		return "name ASC, id ASC"
	case "reported_on":
		return "reported_on ASC, id ASC"
	default:
		return "id ASC"
	}
}

func (r *PetsRepo) ListLost(ctx context.Context, orderBy string) ([]pets.Pet, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+petColumns+`
		FROM pets
		WHERE active = 1 AND status IN (?, ?)
		ORDER BY `+lostOrderClause(orderBy)+`
	`, string(pets.StatusLostOwn), string(pets.StatusLostOther))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPets(rows)
}

func (r *PetsRepo) List(ctx context.Context, includeInactive bool) ([]pets.Pet, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx, `
		SELECT`+petColumns+`
		FROM pets
		WHERE active = 1 OR ? = 1
		ORDER BY id ASC
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPets(rows)
}

func collectPets(rows *sql.Rows) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE pets
		SET
			name = ?,
			species = ?,
			breed = ?,
			size = ?,
			color = ?,
			coordinates = ?,
			description = ?,
			photos = ?,
			status = ?,
			reported_on = ?,
			active = ?,
			updated_at = ?
		WHERE id = ?
	`,
		p.Name,
		p.Species,
		p.Breed,
		string(p.Size),
		p.Color,
		p.Coordinates,
		p.Description,
		encodePhotos(p.Photos),
		string(p.Status),
		p.ReportedOn,
		p.Active,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *PetsRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.q(ctx).ExecContext(ctx, `
		UPDATE pets SET active = 0 WHERE id = ? AND active = 1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := r.db.q(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM pets WHERE id = ?)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

func (r *PetsRepo) CountByStatus(ctx context.Context, status pets.Status) (int, error) {
	var n int
	err := r.db.q(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pets WHERE active = 1 AND status = ?
	`, string(status)).Scan(&n)
	return n, err
}
