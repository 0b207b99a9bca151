package owners

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-alert/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/owners", func(or chi.Router) {
		or.Post("/register", registerHandler(svc))
		or.Post("/login", loginHandler(svc))

		or.Get("/", listOwnersHandler(svc))
		or.Get("/{ownerID}", getOwnerHandler(svc))
		or.Put("/{ownerID}", updateOwnerHandler(svc))
		or.Delete("/{ownerID}", deleteOwnerHandler(svc))
	})
}

type registerRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Province  string `json:"province"`
	City      string `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	Owner ownerResponse `json:"owner"`
}

type ownerResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Province  string    `json:"province"`
	City      string    `json:"city"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateOwnerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Province  *string `json:"province"`
	City      *string `json:"city"`

	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// registerHandler da de alta una cuenta.
// @Summary Registrar cuenta
// @Tags owners
// @Accept json
// @Produce json
// @Success 201 {object} ownerResponse
// @Failure 409 {string} string "email o username ya registrado"
// @Router /owners/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Register(r.Context(), RegisterInput{
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Phone:     req.Phone,
			Province:  req.Province,
			City:      req.City,
		})
		if err != nil {
			switch err {
			case ErrConflict:
				http.Error(w, err.Error(), http.StatusConflict)
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toOwnerResponse(o))
	}
}

// loginHandler autentica y devuelve el token de sesión.
// @Summary Login
// @Tags owners
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "credenciales inválidas"
// @Router /owners/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			// mismo mensaje para email inexistente y contraseña incorrecta
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token: token,
			Owner: toOwnerResponse(o),
		})
	}
}

func listOwnersHandler(svc *Service) http.HandlerFunc {
	// Solo admin ve el listado de cuentas.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != string(RoleAdmin) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		items, err := svc.List(r.Context(), includeInactive)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ownerIDParam(r)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}

		o, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "owner not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

// updateOwnerHandler actualiza el perfil. Cambiar la contraseña exige la
// actual; si falla, se rechaza el request completo.
func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ownerIDParam(r)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}

		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.OwnerID != id && claims.Role != string(RoleAdmin) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updateOwnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), id, UpdateProfileInput{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Phone:           req.Phone,
			Province:        req.Province,
			City:            req.City,
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
		})
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "owner not found", http.StatusNotFound)
			case ErrUnauthorized:
				http.Error(w, "current password is incorrect", http.StatusUnauthorized)
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(updated))
	}
}

func deleteOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ownerIDParam(r)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}

		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.OwnerID != id && claims.Role != string(RoleAdmin) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			http.Error(w, "owner not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ownerIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "ownerID"), 10, 64)
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:        o.ID,
		Username:  o.Username,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Email:     o.Email,
		Phone:     o.Phone,
		Province:  o.Province,
		City:      o.City,
		Role:      string(o.Role),
		Active:    o.Active,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// writeJSON se duplica a propósito en los handlers de cada módulo
// (mismo criterio que en el resto del proyecto: nada de helpers
// compartidos prematuros).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
