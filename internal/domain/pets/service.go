package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-alert/internal/platform/logger"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidSize      = errors.New("invalid size")
	ErrNotFound         = errors.New("pet not found")
	ErrInvalidReference = errors.New("invalid reference")
)

// OwnerLinker es la única vía legal para colgar una mascota de un dueño.
// La implementa el Relationship Manager.
type OwnerLinker interface {
	LinkPet(ctx context.Context, ownerID int64, p *Pet) error
}

// Sightings es la vista del módulo de avistamientos que necesita el ciclo de
// vida: el alta inicial best-effort y la cascada al recuperar.
type Sightings interface {
	CreateInitial(ctx context.Context, ownerID, petID int64, coordinates, description string, photos []string) error
	DeactivateByPet(ctx context.Context, petID int64) (int, error)
}

// Atomic delimita una unidad de trabajo todo-o-nada sobre el store.
type Atomic interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo      Repository
	linker    OwnerLinker
	sightings Sightings
	tx        Atomic
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, linker OwnerLinker, sightings Sightings, tx Atomic, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		linker:    linker,
		sightings: sightings,
		tx:        tx,
		log:       log,
		now:       time.Now,
	}
}

type CreateInput struct {
	Name        string
	Species     string
	Breed       string
	Size        string
	Color       string
	Coordinates string
	Description string
	Photos      []string
	Status      string
	ReportedOn  *time.Time
}

// Create registra una mascota para un dueño. Si el estado es lost_other se
// sintetiza un avistamiento inicial a nombre del dueño creador, con las
// mismas coordenadas/descripción/fotos. Ese alta es auxiliar: si falla se
// loguea y la mascota queda creada igual.
func (s *Service) Create(ctx context.Context, ownerID int64, in CreateInput) (Pet, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}

	size, err := ParseSize(in.Size)
	if err != nil {
		return Pet{}, err
	}

	// Sin estado explícito la mascota nace como recuperada (ficha sin
	// búsqueda activa), igual que el comportamiento histórico del sistema.
	status := StatusRecovered
	if strings.TrimSpace(in.Status) != "" {
		status, err = ParseStatus(in.Status)
		if err != nil {
			return Pet{}, err
		}
	}

	now := s.now()
	reportedOn := now
	if in.ReportedOn != nil {
		reportedOn = *in.ReportedOn
	}

	p := Pet{
		Name:        strings.TrimSpace(in.Name),
		Species:     strings.TrimSpace(in.Species),
		Breed:       strings.TrimSpace(in.Breed),
		Size:        size,
		Color:       strings.TrimSpace(in.Color),
		Coordinates: strings.TrimSpace(in.Coordinates),
		Description: strings.TrimSpace(in.Description),
		Photos:      in.Photos,
		Status:      status,
		ReportedOn:  reportedOn,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.linker.LinkPet(ctx, ownerID, &p); err != nil {
		return Pet{}, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Pet{}, err
	}

	if created.Status == StatusLostOther {
		description := "Avistamiento inicial - Mascota encontrada sin dueño conocido"
		if created.Description != "" {
			description += ". " + created.Description
		}

		if err := s.sightings.CreateInitial(ctx, ownerID, created.ID, created.Coordinates, description, created.Photos); err != nil {
			s.log.Warn("no se pudo crear el avistamiento inicial", map[string]any{
				"pet_id": created.ID,
				"error":  err.Error(),
			})
		}
	}

	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64, includeInactive bool) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID, includeInactive)
}

// Claves de orden aceptadas por el listado público de perdidas.
var lostOrderKeys = map[string]bool{
	"":            true,
	"id":          true,
	"name":        true,
	"reported_on": true,
}

// ListLost lista las perdidas ordenadas por la clave pedida; la clave vacía
// ordena por id. Una clave desconocida es error, no un fallback.
func (s *Service) ListLost(ctx context.Context, orderBy string) ([]Pet, error) {
	if !lostOrderKeys[orderBy] {
		return nil, ErrInvalidInput
	}
	return s.repo.ListLost(ctx, orderBy)
}

type UpdateInput struct {
	// Punteros: nil = no tocar el campo.
	Name        *string
	Species     *string
	Breed       *string
	Size        *string
	Color       *string
	Coordinates *string
	Description *string
	Photos      *[]string
	Status      *string
}

// Update reemplaza el registro completo. La transición a recovered desde
// cualquier otro estado guardado da de baja todos los avistamientos activos
// de la mascota, en la misma unidad de trabajo. recovered→recovered no
// vuelve a disparar la cascada.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Pet, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	if !current.Active {
		return Pet{}, ErrNotFound
	}

	// Validar TODO antes de escribir nada: un enum inválido no deja
	// escrituras parciales.
	newStatus := current.Status
	if in.Status != nil {
		newStatus, err = ParseStatus(*in.Status)
		if err != nil {
			return Pet{}, err
		}
	}
	if in.Size != nil {
		size, err := ParseSize(*in.Size)
		if err != nil {
			return Pet{}, err
		}
		current.Size = size
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		current.Species = strings.TrimSpace(*in.Species)
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Color != nil {
		current.Color = strings.TrimSpace(*in.Color)
	}
	if in.Coordinates != nil {
		current.Coordinates = strings.TrimSpace(*in.Coordinates)
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.Photos != nil {
		current.Photos = *in.Photos
	}

	// La cascada se decide comparando el estado GUARDADO contra el nuevo,
	// dentro de esta misma operación.
	recovering := newStatus == StatusRecovered && current.Status != StatusRecovered
	current.Status = newStatus
	current.UpdatedAt = s.now()

	var updated Pet
	if recovering {
		err = s.tx.InTx(ctx, func(ctx context.Context) error {
			var txErr error
			updated, txErr = s.repo.Update(ctx, current)
			if txErr != nil {
				return txErr
			}
			_, txErr = s.sightings.DeactivateByPet(ctx, current.ID)
			return txErr
		})
	} else {
		updated, err = s.repo.Update(ctx, current)
	}
	if err != nil {
		return Pet{}, err
	}

	return updated, nil
}

// Deactivate es el borrado lógico. Repetirlo no es error.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}
