package pets

import (
	"strings"
	"time"
)

// Status es el estado del ciclo de vida de la mascota.
// @Enum lost_own, lost_other, recovered, adopted
type Status string

const (
	// StatusLostOwn: mascota propia perdida.
	StatusLostOwn Status = "lost_own"
	// StatusLostOther: mascota ajena encontrada perdida; dispara el
	// avistamiento inicial al crearla.
	StatusLostOther Status = "lost_other"
	StatusRecovered Status = "recovered"
	StatusAdopted   Status = "adopted"
)

// Size define el tamaño de la mascota.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ParseStatus normaliza y valida un estado. Un valor desconocido rechaza la
// operación completa.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusLostOwn:
		return StatusLostOwn, nil
	case StatusLostOther:
		return StatusLostOther, nil
	case StatusRecovered:
		return StatusRecovered, nil
	case StatusAdopted:
		return StatusAdopted, nil
	default:
		return "", ErrInvalidStatus
	}
}

func ParseSize(s string) (Size, error) {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeMedium:
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", ErrInvalidSize
	}
}

// Pet es una mascota registrada. El dueño es obligatorio y se asigna
// únicamente a través del Relationship Manager; los avistamientos asociados
// se derivan por query, nunca se guardan como lista embebida.
type Pet struct {
	ID      int64
	OwnerID int64

	Name    string
	Species string // texto libre (perro, gato, ...)
	Breed   string // texto libre
	Size    Size
	Color   string

	Coordinates string // string opaco "lat,lng"
	Description string
	Photos      []string // referencias opacas al file store, en orden

	Status     Status
	ReportedOn time.Time

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pet) RecordID() int64 { return p.ID }

func (p Pet) WithRecordID(id int64) Pet {
	p.ID = id
	return p
}

func (p Pet) IsActive() bool { return p.Active }

func (p Pet) WithActive(active bool) Pet {
	p.Active = active
	return p
}
