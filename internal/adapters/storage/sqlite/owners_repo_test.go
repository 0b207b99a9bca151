package sqlite

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	// mensaje que emite el driver al chocar contra owners_email_active
	dup := errors.New("constraint failed: UNIQUE constraint failed: owners.email (2067)")
	if !isUniqueViolation(dup) {
		t.Fatalf("expected unique constraint message to read as violation")
	}

	if isUniqueViolation(errors.New("constraint failed: FOREIGN KEY constraint failed (787)")) {
		t.Fatalf("foreign key violation must not read as conflict")
	}
	if isUniqueViolation(errors.New("database is locked")) {
		t.Fatalf("generic error must not read as conflict")
	}
	if isUniqueViolation(nil) {
		t.Fatalf("nil must not read as conflict")
	}
}
