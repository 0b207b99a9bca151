package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-alert/internal/platform/config"
	"pet-alert/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler, _, err := router.NewRouter(context.Background(), router.Options{
		Config: config.Config{
			StorageDriver: "memory",
			UploadsDir:    t.TempDir(),
		},
		Codec: nil, // modo dev: X-Debug-Owner-ID
	})
	if err != nil {
		t.Fatalf("NewRouter error: %v", err)
	}

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_LostAndFound(t *testing.T) {
	ts := newTestServer(t)

	anaID := registerOwner(t, ts.URL, "ana", "ana@x.com")
	betoID := registerOwner(t, ts.URL, "beto", "beto@x.com")

	// 1) Ana reporta a su mascota como perdida
	petID := createPet(t, ts.URL, anaID, map[string]any{
		"name":    "Milo",
		"species": "perro",
		"size":    "medium",
		"status":  "lost_own",
	})

	// 2) Beto no puede editar la mascota de Ana
	{
		st, _ := doReq(t, ts.URL, "PUT", fmt.Sprintf("/pets/%d", petID), betoID, map[string]any{
			"name": "Robado",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 updating someone else's pet, got %d", st)
		}
	}

	// 3) Beto reporta un avistamiento
	{
		st, body := doReq(t, ts.URL, "POST", fmt.Sprintf("/pets/%d/sightings", petID), betoID, map[string]any{
			"coordinates": "-34.6,-58.4",
			"description": "Lo vi en la plaza",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create sighting, got %d body=%s", st, string(body))
		}
	}

	// 4) La mascota aparece en el listado público de perdidas
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/lost", 0, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 lost list, got %d", st)
		}
		var lost []map[string]any
		_ = json.Unmarshal(body, &lost)
		if len(lost) != 1 {
			t.Fatalf("expected 1 lost pet, got %d", len(lost))
		}
	}

	// 5) Ana la marca como recuperada: los avistamientos se apagan en cascada
	{
		st, body := doReq(t, ts.URL, "PUT", fmt.Sprintf("/pets/%d", petID), anaID, map[string]any{
			"status": "recovered",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 recover, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", fmt.Sprintf("/pets/%d/sightings", petID), 0, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing sightings, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 0 {
			t.Fatalf("expected no active sightings after recovery, got %d", len(items))
		}
	}
	{
		// siguen ahí como registros inactivos
		st, body := doReq(t, ts.URL, "GET", fmt.Sprintf("/pets/%d/sightings?include_inactive=true", petID), 0, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 inactive sighting kept, got %d", len(items))
		}
	}

	// 6) ...y desaparece del listado de perdidas
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/lost", 0, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 lost list, got %d", st)
		}
		var lost []map[string]any
		_ = json.Unmarshal(body, &lost)
		if len(lost) != 0 {
			t.Fatalf("expected empty lost list after recovery, got %d", len(lost))
		}
	}
}

func TestHTTP_FoundPetSpawnsInitialSighting(t *testing.T) {
	ts := newTestServer(t)

	betoID := registerOwner(t, ts.URL, "beto", "beto@x.com")

	// mascota ajena encontrada: nace con un avistamiento sintetizado
	petID := createPet(t, ts.URL, betoID, map[string]any{
		"name":        "Desconocido",
		"species":     "gato",
		"size":        "small",
		"status":      "lost_other",
		"coordinates": "-31.4,-64.2",
	})

	st, body := doReq(t, ts.URL, "GET", fmt.Sprintf("/pets/%d/sightings", petID), 0, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var items []struct {
		OwnerID     int64  `json:"owner_id"`
		Initial     bool   `json:"initial"`
		Coordinates string `json:"coordinates"`
	}
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 initial sighting, got %d", len(items))
	}
	if !items[0].Initial {
		t.Fatalf("expected initial flag set")
	}
	if items[0].OwnerID != betoID {
		t.Fatalf("expected reporter %d, got %d", betoID, items[0].OwnerID)
	}
	if items[0].Coordinates != "-31.4,-64.2" {
		t.Fatalf("expected pet coordinates copied, got %q", items[0].Coordinates)
	}
}

func TestHTTP_LostListOrdering(t *testing.T) {
	ts := newTestServer(t)

	anaID := registerOwner(t, ts.URL, "ana", "ana@x.com")
	createPet(t, ts.URL, anaID, map[string]any{
		"name": "zeta", "species": "perro", "size": "small", "status": "lost_own",
	})
	createPet(t, ts.URL, anaID, map[string]any{
		"name": "alfa", "species": "gato", "size": "small", "status": "lost_own",
	})

	{
		st, body := doReq(t, ts.URL, "GET", "/pets/lost?order_by=name", 0, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", st, string(body))
		}
		var lost []struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &lost)
		if len(lost) != 2 || lost[0].Name != "alfa" || lost[1].Name != "zeta" {
			t.Fatalf("expected [alfa zeta], got %+v", lost)
		}
	}

	// clave desconocida => 400, no fallback silencioso
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/lost?order_by=color", 0, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 unknown order key, got %d", st)
		}
	}
}

func TestHTTP_RegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	registerOwner(t, ts.URL, "ana", "ana@x.com")

	// email duplicado => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/owners/register", 0, map[string]any{
			"username":   "otra",
			"first_name": "Otra",
			"email":      "ana@x.com",
			"password":   "secreto123",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate email, got %d", st)
		}
	}

	// login correcto e incorrecto
	{
		st, _ := doReq(t, ts.URL, "POST", "/owners/login", 0, map[string]any{
			"email": "ana@x.com", "password": "secreto123",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/owners/login", 0, map[string]any{
			"email": "ana@x.com", "password": "incorrecta",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad password, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/owners/login", 0, map[string]any{
			"email": "nadie@x.com", "password": "secreto123",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 unknown email, got %d", st)
		}
	}
}

func TestHTTP_SoftDeletedPetKeepsRecord(t *testing.T) {
	ts := newTestServer(t)

	anaID := registerOwner(t, ts.URL, "ana", "ana@x.com")
	petID := createPet(t, ts.URL, anaID, map[string]any{
		"name":    "Milo",
		"species": "perro",
		"size":    "large",
		"status":  "lost_own",
	})

	{
		st, _ := doReq(t, ts.URL, "DELETE", fmt.Sprintf("/pets/%d", petID), anaID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
	}

	// el registro sigue recuperable por id, con active=false
	{
		st, body := doReq(t, ts.URL, "GET", fmt.Sprintf("/pets/%d", petID), 0, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get after soft delete, got %d", st)
		}
		var resp struct {
			Active bool `json:"active"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Active {
			t.Fatalf("expected active=false")
		}
	}

	// pero no aparece en listados por defecto
	{
		st, body := doReq(t, ts.URL, "GET", fmt.Sprintf("/owners/%d/pets", anaID), 0, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 0 {
			t.Fatalf("expected hidden by default, got %d", len(items))
		}
	}
}

func TestHTTP_DashboardStats(t *testing.T) {
	ts := newTestServer(t)

	anaID := registerOwner(t, ts.URL, "ana", "ana@x.com")
	createPet(t, ts.URL, anaID, map[string]any{
		"name": "a", "species": "perro", "size": "small", "status": "lost_own",
	})
	createPet(t, ts.URL, anaID, map[string]any{
		"name": "b", "species": "gato", "size": "small", "status": "lost_other",
	})
	createPet(t, ts.URL, anaID, map[string]any{
		"name": "c", "species": "perro", "size": "small", "status": "recovered",
	})

	st, body := doReq(t, ts.URL, "GET", "/dashboard/stats", 0, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 stats, got %d", st)
	}
	var stats struct {
		Lost             int `json:"lost"`
		Recovered        int `json:"recovered"`
		PendingSightings int `json:"pending_sightings"`
	}
	_ = json.Unmarshal(body, &stats)
	if stats.Lost != 2 {
		t.Fatalf("expected 2 lost, got %d", stats.Lost)
	}
	if stats.Recovered != 1 {
		t.Fatalf("expected 1 recovered, got %d", stats.Recovered)
	}
	// el alta de la encontrada sintetizó su avistamiento inicial
	if stats.PendingSightings != 1 {
		t.Fatalf("expected 1 pending sighting, got %d", stats.PendingSightings)
	}
}

func registerOwner(t *testing.T, baseURL, username, email string) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/owners/register", 0, map[string]any{
		"username":   username,
		"first_name": username,
		"email":      email,
		"password":   "secreto123",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == 0 {
		t.Fatalf("register: missing id body=%s", string(body))
	}
	return resp.ID
}

func createPet(t *testing.T, baseURL string, ownerID int64, payload map[string]any) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", fmt.Sprintf("/owners/%d/pets", ownerID), ownerID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == 0 {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, debugOwnerID int64, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugOwnerID != 0 {
		req.Header.Set("X-Debug-Owner-ID", fmt.Sprintf("%d", debugOwnerID))
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
