package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "owners_email_active"}
	if !isUniqueViolation(dup) {
		t.Fatalf("expected 23505 to read as unique violation")
	}
	// también envuelto
	if !isUniqueViolation(fmt.Errorf("insert owner: %w", dup)) {
		t.Fatalf("expected wrapped 23505 to read as unique violation")
	}

	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation must not read as conflict")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Fatalf("generic error must not read as conflict")
	}
	if isUniqueViolation(nil) {
		t.Fatalf("nil must not read as conflict")
	}
}
