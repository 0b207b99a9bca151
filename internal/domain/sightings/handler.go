package sightings

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-alert/internal/middleware"
	"pet-alert/internal/ports/filestore"
)

func RegisterRoutes(r chi.Router, svc *Service, photos filestore.Store) {
	r.Post("/pets/{petID}/sightings", createSightingHandler(svc, photos))
	r.Get("/pets/{petID}/sightings", listByPetHandler(svc))

	r.Route("/sightings", func(sr chi.Router) {
		sr.Get("/{sightingID}", getSightingHandler(svc))
		sr.Put("/{sightingID}", updateSightingHandler(svc, photos))
		sr.Delete("/{sightingID}", deleteSightingHandler(svc, photos))
	})
}

type createSightingRequest struct {
	Coordinates string   `json:"coordinates"`
	Description string   `json:"description"`
	SightedOn   string   `json:"sighted_on"` // YYYY-MM-DD opcional
	PhotosB64   []string `json:"photos_base64"`
}

type updateSightingRequest struct {
	Coordinates *string   `json:"coordinates"`
	Description *string   `json:"description"`
	SightedOn   *string   `json:"sighted_on"`
	PhotosB64   *[]string `json:"photos_base64"`
	OwnerID     *int64    `json:"owner_id"`
	PetID       *int64    `json:"pet_id"`
}

type sightingResponse struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	PetID       int64     `json:"pet_id"`
	Coordinates string    `json:"coordinates"`
	Description string    `json:"description"`
	Photos      []string  `json:"photos"`
	SightedOn   time.Time `json:"sighted_on"`
	Initial     bool      `json:"initial"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createSightingHandler registra un avistamiento a nombre del usuario
// autenticado.
// @Summary Reportar avistamiento
// @Tags sightings
// @Accept json
// @Produce json
// @Success 201 {object} sightingResponse
// @Router /pets/{petID}/sightings [post]
func createSightingHandler(svc *Service, photos filestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createSightingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var sightedOn *time.Time
		if req.SightedOn != "" {
			t, err := time.Parse("2006-01-02", req.SightedOn)
			if err != nil {
				http.Error(w, "sighted_on must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			sightedOn = &t
		}

		var refs []string
		if len(req.PhotosB64) > 0 {
			refs, err = photos.SaveBase64(r.Context(), req.PhotosB64, fmt.Sprintf("sighting_%d", petID))
			if err != nil {
				http.Error(w, "invalid photo payload", http.StatusBadRequest)
				return
			}
		}

		sig, err := svc.Create(r.Context(), claims.OwnerID, petID, CreateInput{
			Coordinates: req.Coordinates,
			Description: req.Description,
			Photos:      refs,
			SightedOn:   sightedOn,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrInvalidReference:
				http.Error(w, "pet not found or inactive", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toSightingResponse(sig))
	}
}

func listByPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		items, err := svc.ListByPet(r.Context(), petID, includeInactive)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]sightingResponse, 0, len(items))
		for _, sig := range items {
			out = append(out, toSightingResponse(sig))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getSightingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sightingIDParam(r)
		if err != nil {
			http.Error(w, "invalid sighting id", http.StatusBadRequest)
			return
		}

		sig, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "sighting not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toSightingResponse(sig))
	}
}

func updateSightingHandler(svc *Service, photos filestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sightingIDParam(r)
		if err != nil {
			http.Error(w, "invalid sighting id", http.StatusBadRequest)
			return
		}

		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "sighting not found", http.StatusNotFound)
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
		var body updateSightingRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		// Reasignar puntas queda reservado a admin.
		if (body.OwnerID != nil || body.PetID != nil) && claims.Role != "admin" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		in := UpdateInput{
			Coordinates: body.Coordinates,
			Description: body.Description,
			OwnerID:     body.OwnerID,
			PetID:       body.PetID,
		}

		if body.SightedOn != nil {
			t, err := time.Parse("2006-01-02", *body.SightedOn)
			if err != nil {
				http.Error(w, "sighted_on must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.SightedOn = &t
		}

		var oldRefs []string
		if body.PhotosB64 != nil {
			refs, err := photos.SaveBase64(r.Context(), *body.PhotosB64, fmt.Sprintf("sighting_%d", current.PetID))
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
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "sighting not found", http.StatusNotFound)
			case ErrInvalidReference:
				http.Error(w, "owner or pet not found or inactive", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if len(oldRefs) > 0 {
			_ = photos.Delete(r.Context(), oldRefs)
		}

		writeJSON(w, http.StatusOK, toSightingResponse(updated))
	}
}

func deleteSightingHandler(svc *Service, photos filestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sightingIDParam(r)
		if err != nil {
			http.Error(w, "invalid sighting id", http.StatusBadRequest)
			return
		}

		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "sighting not found", http.StatusNotFound)
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
			http.Error(w, "sighting not found", http.StatusNotFound)
			return
		}

		if len(current.Photos) > 0 {
			_ = photos.Delete(r.Context(), current.Photos)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func sightingIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "sightingID"), 10, 64)
}

func toSightingResponse(s Sighting) sightingResponse {
	photos := s.Photos
	if photos == nil {
		photos = []string{}
	}
	return sightingResponse{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		PetID:       s.PetID,
		Coordinates: s.Coordinates,
		Description: s.Description,
		Photos:      photos,
		SightedOn:   s.SightedOn,
		Initial:     s.Initial,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
