package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-alert/internal/platform/logger"
	"pet-alert/internal/platform/password"
	"pet-alert/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("owner not found")
	ErrConflict     = errors.New("email or username already registered")
	ErrUnauthorized = errors.New("invalid credentials")
)

type Service struct {
	repo  Repository
	codec auth.TokenCodec
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, codec auth.TokenCodec, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		codec: codec,
		log:   log,
		now:   time.Now,
	}
}

type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Province  string
	City      string
}

// Register da de alta una cuenta registrada. Email y nombre de usuario deben
// ser únicos entre cuentas ACTIVAS (match exacto, case-sensitive): una cuenta
// con borrado lógico no bloquea el reuso.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Owner, error) {
	return s.register(ctx, in, RoleRegistered)
}

// EnsureAdmin crea la cuenta administradora si el email está libre.
// Si ya existe una cuenta activa con ese email no hace nada.
func (s *Service) EnsureAdmin(ctx context.Context, email, plainPassword string) error {
	if _, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email)); err == nil {
		return nil
	}

	_, err := s.register(ctx, RegisterInput{
		Username:  "admin",
		FirstName: "Admin",
		Email:     email,
		Password:  plainPassword,
	}, RoleAdmin)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

func (s *Service) register(ctx context.Context, in RegisterInput, role Role) (Owner, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || strings.TrimSpace(in.FirstName) == "" {
		return Owner{}, ErrInvalidInput
	}

	digest, err := password.Hash(in.Password)
	if err != nil {
		return Owner{}, ErrInvalidInput
	}

	// Unicidad contra cuentas activas; el match exitoso es el conflicto.
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Owner{}, ErrConflict
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return Owner{}, ErrConflict
	}

	now := s.now()
	o := Owner{
		Username:     username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: digest,
		Phone:        strings.TrimSpace(in.Phone),
		Province:     strings.TrimSpace(in.Province),
		City:         strings.TrimSpace(in.City),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return Owner{}, err
	}
	return created, nil
}

// Login autentica por email y contraseña y emite el token de sesión.
// "No existe el email" y "contraseña incorrecta" devuelven exactamente el
// mismo error: el caller nunca puede distinguirlos.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (Owner, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || plainPassword == "" {
		return Owner{}, "", ErrUnauthorized
	}

	o, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Owner{}, "", ErrUnauthorized
	}

	if !password.Verify(plainPassword, o.PasswordHash) {
		return Owner{}, "", ErrUnauthorized
	}

	// Sin codec (modo dev) el login valida credenciales pero no emite token.
	var token string
	if s.codec != nil {
		token, err = s.codec.Issue(auth.Claims{
			OwnerID: o.ID,
			Email:   o.Email,
			Role:    string(o.Role),
		})
		if err != nil {
			return Owner{}, "", err
		}
	}

	return o, token, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Owner, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Owner{}, ErrNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]Owner, error) {
	return s.repo.List(ctx, includeInactive)
}

type UpdateProfileInput struct {
	// Punteros: nil = no tocar el campo.
	FirstName *string
	LastName  *string
	Phone     *string
	Province  *string
	City      *string

	// Cambio de contraseña: NewPassword exige CurrentPassword válida.
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile es todo-o-nada: si el cambio de contraseña falla la
// verificación, ningún otro campo del request se persiste.
func (s *Service) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (Owner, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Owner{}, ErrNotFound
	}
	if !o.Active {
		return Owner{}, ErrNotFound
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return Owner{}, ErrInvalidInput
		}
		if !password.Verify(in.CurrentPassword, o.PasswordHash) {
			return Owner{}, ErrUnauthorized
		}
		digest, err := password.Hash(in.NewPassword)
		if err != nil {
			return Owner{}, ErrInvalidInput
		}
		o.PasswordHash = digest
	}

	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return Owner{}, ErrInvalidInput
		}
		o.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		o.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		o.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Province != nil {
		o.Province = strings.TrimSpace(*in.Province)
	}
	if in.City != nil {
		o.City = strings.TrimSpace(*in.City)
	}

	o.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return Owner{}, err
	}
	return updated, nil
}

// Deactivate es el borrado lógico de la cuenta. Repetirlo no es error.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}
