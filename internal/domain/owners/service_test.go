package owners

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-alert/internal/platform/logger"
	"pet-alert/internal/platform/password"
	"pet-alert/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	nextID int64
	byID   map[int64]Owner
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Owner{}}
}

func (r *testRepo) Create(ctx context.Context, o Owner) (Owner, error) {
	r.nextID++
	o.ID = r.nextID
	r.byID[o.ID] = o
	return o, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Owner, error) {
	o, ok := r.byID[id]
	if !ok {
		return Owner{}, errRepoNotFound
	}
	return o, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (Owner, error) {
	for _, o := range r.byID {
		if o.Active && o.Email == email {
			return o, nil
		}
	}
	return Owner{}, errRepoNotFound
}

func (r *testRepo) GetByUsername(ctx context.Context, username string) (Owner, error) {
	for _, o := range r.byID {
		if o.Active && o.Username == username {
			return o, nil
		}
	}
	return Owner{}, errRepoNotFound
}

func (r *testRepo) List(ctx context.Context, includeInactive bool) ([]Owner, error) {
	out := make([]Owner, 0)
	for _, o := range r.byID {
		if !includeInactive && !o.Active {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, o Owner) (Owner, error) {
	if _, ok := r.byID[o.ID]; !ok {
		return Owner{}, errRepoNotFound
	}
	r.byID[o.ID] = o
	return o, nil
}

func (r *testRepo) SoftDelete(ctx context.Context, id int64) error {
	o, ok := r.byID[id]
	if !ok {
		return errRepoNotFound
	}
	if !o.Active {
		return nil // idempotente
	}
	o.Active = false
	r.byID[id] = o
	return nil
}

type testCodec struct{}

func (testCodec) Issue(claims auth.Claims) (string, error) { return "token-de-test", nil }

func (testCodec) Verify(ctx context.Context, token string) (auth.Claims, error) {
	return auth.Claims{}, auth.ErrTokenInvalid
}

func newTestService(repo Repository) *Service {
	return NewService(repo, testCodec{}, logger.New(logger.Options{Level: logger.Error}))
}

// -------------------------
// Tests
// -------------------------

func TestService_Register_HashesPassword(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	o, err := svc.Register(context.Background(), RegisterInput{
		Username:  "ana",
		FirstName: "Ana",
		Email:     "a@x.com",
		Password:  "secreto123",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if o.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if !o.Active {
		t.Fatalf("expected active account")
	}
	if o.Role != RoleRegistered {
		t.Fatalf("expected registered role, got %s", o.Role)
	}
	if o.PasswordHash == "secreto123" || o.PasswordHash == "" {
		t.Fatalf("expected hashed password, got %q", o.PasswordHash)
	}
	if !password.Verify("secreto123", o.PasswordHash) {
		t.Fatalf("stored hash does not verify")
	}
}

func TestService_Register_DuplicateEmailConflicts(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	first, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana", Email: "a@x.com", Password: "secreto123",
	})
	if err != nil {
		t.Fatalf("Register #1 error: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "otra", FirstName: "Otra", Email: "a@x.com", Password: "secreto123",
	})
	if err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// el borrado lógico libera el email
	if err := svc.Deactivate(context.Background(), first.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "tercera", FirstName: "Tercera", Email: "a@x.com", Password: "secreto123",
	}); err != nil {
		t.Fatalf("expected register to succeed after soft delete, got %v", err)
	}
}

func TestService_Register_DuplicateUsernameConflicts(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana", Email: "a@x.com", Password: "secreto123",
	}); err != nil {
		t.Fatalf("Register #1 error: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana B", Email: "b@x.com", Password: "secreto123",
	})
	if err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestService_Login_UniformUnauthorized(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana", Email: "a@x.com", Password: "secreto123",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// contraseña incorrecta y email inexistente: mismo error, misma forma
	_, _, errWrongPass := svc.Login(context.Background(), "a@x.com", "incorrecta")
	_, _, errNoEmail := svc.Login(context.Background(), "nadie@x.com", "secreto123")

	if errWrongPass != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", errWrongPass)
	}
	if errNoEmail != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", errNoEmail)
	}
	if errWrongPass != errNoEmail {
		t.Fatalf("both failures must be indistinguishable")
	}
}

func TestService_Login_ReturnsToken(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana", Email: "a@x.com", Password: "secreto123",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	o, token, err := svc.Login(context.Background(), "a@x.com", "secreto123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	if o.Email != "a@x.com" {
		t.Fatalf("unexpected owner: %+v", o)
	}
}

func TestService_UpdateProfile_PasswordChangeAllOrNothing(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	o, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana", Email: "a@x.com", Password: "secreto123",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	nuevoNombre := "Ana María"
	_, err = svc.UpdateProfile(context.Background(), o.ID, UpdateProfileInput{
		FirstName:       &nuevoNombre,
		CurrentPassword: "incorrecta",
		NewPassword:     "otra456",
	})
	if err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// el nombre NO se tocó: todo-o-nada
	stored, _ := repo.GetByID(context.Background(), o.ID)
	if stored.FirstName != "Ana" {
		t.Fatalf("expected profile untouched, got first name %q", stored.FirstName)
	}

	// con la contraseña actual correcta, cambia todo junto
	updated, err := svc.UpdateProfile(context.Background(), o.ID, UpdateProfileInput{
		FirstName:       &nuevoNombre,
		CurrentPassword: "secreto123",
		NewPassword:     "otra456",
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.FirstName != "Ana María" {
		t.Fatalf("expected updated name, got %q", updated.FirstName)
	}
	if !password.Verify("otra456", updated.PasswordHash) {
		t.Fatalf("expected new password to verify")
	}
}

func TestService_UpdateProfile_NewPasswordRequiresCurrent(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	o, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana", Email: "a@x.com", Password: "secreto123",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err = svc.UpdateProfile(context.Background(), o.ID, UpdateProfileInput{
		NewPassword: "otra456",
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Deactivate_IsIdempotentAndKeepsRecord(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	o, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", FirstName: "Ana", Email: "a@x.com", Password: "secreto123",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.Deactivate(context.Background(), o.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if err := svc.Deactivate(context.Background(), o.ID); err != nil {
		t.Fatalf("second Deactivate must be a no-op, got %v", err)
	}

	// el registro sigue recuperable por id, con active=false
	got, err := svc.GetByID(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("GetByID after delete error: %v", err)
	}
	if got.Active {
		t.Fatalf("expected active=false after soft delete")
	}
}

func TestService_EnsureAdmin(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	if err := svc.EnsureAdmin(context.Background(), "admin@x.com", "secreto123"); err != nil {
		t.Fatalf("EnsureAdmin error: %v", err)
	}

	o, err := repo.GetByEmail(context.Background(), "admin@x.com")
	if err != nil {
		t.Fatalf("expected admin account: %v", err)
	}
	if o.Role != RoleAdmin {
		t.Fatalf("expected admin role, got %s", o.Role)
	}

	// idempotente
	if err := svc.EnsureAdmin(context.Background(), "admin@x.com", "secreto123"); err != nil {
		t.Fatalf("second EnsureAdmin error: %v", err)
	}
	all, _ := repo.List(context.Background(), true)
	if len(all) != 1 {
		t.Fatalf("expected a single account, got %d", len(all))
	}
}

var _ = time.Now // usado por tests que fijan relojes en otros módulos
