package owners

import "time"

// Role distingue las variantes de cuenta. Mismo struct, autorización aparte:
// nada de jerarquías de herencia.
// @Enum registered, admin
type Role string

const (
	RoleRegistered Role = "registered"
	RoleAdmin      Role = "admin"
)

// Owner es un titular de cuenta: registra mascotas y reporta avistamientos.
type Owner struct {
	ID int64

	Username  string
	FirstName string
	LastName  string
	Email     string

	PasswordHash string

	Phone    string
	Province string
	City     string

	Role   Role
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o Owner) RecordID() int64 { return o.ID }

func (o Owner) WithRecordID(id int64) Owner {
	o.ID = id
	return o
}

func (o Owner) IsActive() bool { return o.Active }

func (o Owner) WithActive(active bool) Owner {
	o.Active = active
	return o
}
