package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre (o crea) la base en el path dado. El driver es puro Go, no
// necesita cgo; sirve para instalaciones chicas y para CI.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// una sola conexión: SQLite no banca escritores concurrentes
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &DB{sql: db}, nil
}

// DB resuelve si una operación corre suelta o dentro de la transacción que
// viaja en el contexto.
type DB struct {
	sql *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }

type txKey struct{}

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
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	phone         TEXT NOT NULL DEFAULT '',
	province      TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'registered',
	active        INTEGER NOT NULL DEFAULT 1,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS owners_email_active
	ON owners (email) WHERE active = 1;
CREATE UNIQUE INDEX IF NOT EXISTS owners_username_active
	ON owners (username) WHERE active = 1;

CREATE TABLE IF NOT EXISTS pets (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id    INTEGER NOT NULL REFERENCES owners(id),
	name        TEXT NOT NULL,
	species     TEXT NOT NULL,
	breed       TEXT NOT NULL DEFAULT '',
	size        TEXT NOT NULL,
	color       TEXT NOT NULL DEFAULT '',
	coordinates TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	photos      TEXT NOT NULL DEFAULT '[]',
	status      TEXT NOT NULL,
	reported_on TIMESTAMP NOT NULL,
	active      INTEGER NOT NULL DEFAULT 1,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS pets_owner ON pets (owner_id);

CREATE TABLE IF NOT EXISTS sightings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id    INTEGER NOT NULL REFERENCES owners(id),
	pet_id      INTEGER NOT NULL REFERENCES pets(id),
	coordinates TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	photos      TEXT NOT NULL DEFAULT '[]',
	sighted_on  TIMESTAMP NOT NULL,
	initial     INTEGER NOT NULL DEFAULT 0,
	active      INTEGER NOT NULL DEFAULT 1,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS sightings_pet ON sightings (pet_id);
`

func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, schema)
	return err
}

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
