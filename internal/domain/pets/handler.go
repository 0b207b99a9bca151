package pets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-alert/internal/middleware"
	"pet-alert/internal/ports/filestore"
)

func RegisterRoutes(r chi.Router, svc *Service, photos filestore.Store) {
	// Alta y listado por dueño
	r.Post("/owners/{ownerID}/pets", createPetHandler(svc, photos))
	r.Get("/owners/{ownerID}/pets", listPetsByOwnerHandler(svc))

	r.Route("/pets", func(pr chi.Router) {
		// Listado público de mascotas perdidas (lost_own + lost_other)
		pr.Get("/lost", listLostPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc, photos))
		pr.Delete("/{petID}", deletePetHandler(svc, photos))
	})
}

type createPetRequest struct {
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       string   `json:"breed"`
	Size        string   `json:"size"`
	Color       string   `json:"color"`
	Coordinates string   `json:"coordinates"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	ReportedOn  string   `json:"reported_on"` // YYYY-MM-DD opcional
	PhotosB64   []string `json:"photos_base64"`
}

type updatePetRequest struct {
	// Punteros para update parcial: nil = no tocar.
	Name        *string   `json:"name"`
	Species     *string   `json:"species"`
	Breed       *string   `json:"breed"`
	Size        *string   `json:"size"`
	Color       *string   `json:"color"`
	Coordinates *string   `json:"coordinates"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	PhotosB64   *[]string `json:"photos_base64"`
}

type petResponse struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Size        string    `json:"size"`
	Color       string    `json:"color"`
	Coordinates string    `json:"coordinates"`
	Description string    `json:"description"`
	Photos      []string  `json:"photos"`
	Status      string    `json:"status"`
	ReportedOn  time.Time `json:"reported_on"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createPetHandler registra una mascota para un dueño.
// @Summary Crear mascota
// @Tags pets
// @Accept json
// @Produce json
// @Success 201 {object} petResponse
// @Failure 400 {string} string "estado o tamaño inválido"
// @Router /owners/{ownerID}/pets [post]
func createPetHandler(svc *Service, photos filestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := strconv.ParseInt(chi.URLParam(r, "ownerID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}

		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.OwnerID != ownerID && claims.Role != "admin" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var reportedOn *time.Time
		if req.ReportedOn != "" {
			t, err := time.Parse("2006-01-02", req.ReportedOn)
			if err != nil {
				http.Error(w, "reported_on must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			reportedOn = &t
		}

		// Las fotos se suben primero: el core solo guarda referencias.
		var refs []string
		if len(req.PhotosB64) > 0 {
			refs, err = photos.SaveBase64(r.Context(), req.PhotosB64, fmt.Sprintf("pet_%d", ownerID))
			if err != nil {
				http.Error(w, "invalid photo payload", http.StatusBadRequest)
				return
			}
		}

		p, err := svc.Create(r.Context(), ownerID, CreateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Size:        req.Size,
			Color:       req.Color,
			Coordinates: req.Coordinates,
			Description: req.Description,
			Photos:      refs,
			Status:      req.Status,
			ReportedOn:  reportedOn,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput, ErrInvalidStatus, ErrInvalidSize:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrInvalidReference:
				http.Error(w, "owner not found or inactive", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsByOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := strconv.ParseInt(chi.URLParam(r, "ownerID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}

		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		items, err := svc.ListByOwner(r.Context(), ownerID, includeInactive)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listLostPetsHandler es público: el mapa de perdidas es la cara visible
// del sitio.
func listLostPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListLost(r.Context(), r.URL.Query().Get("order_by"))
		if errors.Is(err, ErrInvalidInput) {
			http.Error(w, "unknown order_by key", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := petIDParam(r)
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler actualiza la ficha. El cambio de estado a recovered
// dispara la baja de avistamientos dentro del service.
func updatePetHandler(svc *Service, photos filestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := petIDParam(r)
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.OwnerID != current.OwnerID && claims.Role != "admin" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Size:        req.Size,
			Color:       req.Color,
			Coordinates: req.Coordinates,
			Description: req.Description,
			Status:      req.Status,
		}

		// Fotos nuevas reemplazan a las anteriores; las viejas se borran
		// best-effort una vez persistido el update.
		var oldRefs []string
		if req.PhotosB64 != nil {
			refs, err := photos.SaveBase64(r.Context(), *req.PhotosB64, fmt.Sprintf("pet_%d", id))
			if err != nil {
				http.Error(w, "invalid photo payload", http.StatusBadRequest)
				return
			}
			in.Photos = &refs
			oldRefs = current.Photos
		}

		updated, err := svc.Update(r.Context(), id, in)
		if err != nil {
			switch err {
			case ErrInvalidInput, ErrInvalidStatus, ErrInvalidSize:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "pet not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if len(oldRefs) > 0 {
			_ = photos.Delete(r.Context(), oldRefs)
		}

		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(svc *Service, photos filestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := petIDParam(r)
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.OwnerID != current.OwnerID && claims.Role != "admin" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		// Los archivos de fotos se limpian best-effort; el registro queda.
		if len(current.Photos) > 0 {
			_ = photos.Delete(r.Context(), current.Photos)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func petIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
}

func toPetResponse(p Pet) petResponse {
	photos := p.Photos
	if photos == nil {
		photos = []string{}
	}
	return petResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Size:        string(p.Size),
		Color:       p.Color,
		Coordinates: p.Coordinates,
		Description: p.Description,
		Photos:      photos,
		Status:      string(p.Status),
		ReportedOn:  p.ReportedOn,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
