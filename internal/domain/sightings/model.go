package sightings

import "time"

// Sighting es un reporte de avistamiento hecho por un usuario sobre una
// mascota. Reportero y mascota son obligatorios y se asignan únicamente a
// través del Relationship Manager.
type Sighting struct {
	ID      int64
	OwnerID int64 // quién reporta
	PetID   int64 // mascota avistada

	Coordinates string // string opaco "lat,lng"
	Description string
	Photos      []string

	SightedOn time.Time

	// Initial marca el avistamiento sintetizado al registrar una mascota
	// encontrada sin dueño conocido.
	Initial bool

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Sighting) RecordID() int64 { return s.ID }

func (s Sighting) WithRecordID(id int64) Sighting {
	s.ID = id
	return s
}

func (s Sighting) IsActive() bool { return s.Active }

func (s Sighting) WithActive(active bool) Sighting {
	s.Active = active
	return s
}
