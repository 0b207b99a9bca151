package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{sql: db}, nil
}

// DB envuelve el pool y resuelve si una operación corre suelta o dentro de
// la transacción que viaja en el contexto.
type DB struct {
	sql *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }

type txKey struct{}

// InTx ejecuta fn dentro de una transacción. Los repos que reciban el
// contexto de fn operan sobre la misma tx.
func (d *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *DB) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return d.sql
}

const schema = `
CREATE TABLE IF NOT EXISTS owners (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	phone         TEXT NOT NULL DEFAULT '',
	province      TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'registered',
	active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS owners_email_active
	ON owners (email) WHERE active;
CREATE UNIQUE INDEX IF NOT EXISTS owners_username_active
	ON owners (username) WHERE active;

CREATE TABLE IF NOT EXISTS pets (
	id          BIGSERIAL PRIMARY KEY,
	owner_id    BIGINT NOT NULL REFERENCES owners(id),
	name        TEXT NOT NULL,
	species     TEXT NOT NULL,
	breed       TEXT NOT NULL DEFAULT '',
	size        TEXT NOT NULL,
	color       TEXT NOT NULL DEFAULT '',
	coordinates TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	photos      TEXT NOT NULL DEFAULT '[]',
	status      TEXT NOT NULL,
	reported_on TIMESTAMPTZ NOT NULL,
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS pets_owner ON pets (owner_id);
CREATE INDEX IF NOT EXISTS pets_status ON pets (status) WHERE active;

CREATE TABLE IF NOT EXISTS sightings (
	id          BIGSERIAL PRIMARY KEY,
	owner_id    BIGINT NOT NULL REFERENCES owners(id),
	pet_id      BIGINT NOT NULL REFERENCES pets(id),
	coordinates TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	photos      TEXT NOT NULL DEFAULT '[]',
	sighted_on  TIMESTAMPTZ NOT NULL,
	initial     BOOLEAN NOT NULL DEFAULT FALSE,
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS sightings_pet ON sightings (pet_id) WHERE active;
`

// Migrate crea el esquema si no existe. Suficiente para este servicio;
// cambios incompatibles se resuelven a mano.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, schema)
	return err
}

// Las fotos se guardan como JSON en una columna de texto: siempre se leen
// y escriben como lista completa, no hace falta una tabla aparte.
func encodePhotos(photos []string) string {
	if photos == nil {
		photos = []string{}
	}
	b, _ := json.Marshal(photos)
	return string(b)
}

func decodePhotos(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}
