package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-alert/internal/domain/pets"
	"pet-alert/internal/domain/sightings"
)

func TestSoftCollection_InsertAssignsMonotonicIDs(t *testing.T) {
	col := NewSoftCollection[pets.Pet]()

	a := col.Insert(pets.Pet{Name: "a", Active: true})
	b := col.Insert(pets.Pet{Name: "b", Active: true})
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1,2; got %d,%d", a.ID, b.ID)
	}

	// la baja no libera el id
	if err := col.SoftDelete(b.ID); err != nil {
		t.Fatalf("SoftDelete error: %v", err)
	}
	c := col.Insert(pets.Pet{Name: "c", Active: true})
	if c.ID != 3 {
		t.Fatalf("ids must never be reused, got %d", c.ID)
	}
}

func TestSoftCollection_SoftDelete(t *testing.T) {
	col := NewSoftCollection[pets.Pet]()
	p := col.Insert(pets.Pet{Name: "a", Active: true})

	if err := col.SoftDelete(p.ID); err != nil {
		t.Fatalf("SoftDelete error: %v", err)
	}
	// idempotente
	if err := col.SoftDelete(p.ID); err != nil {
		t.Fatalf("second SoftDelete must be a no-op, got %v", err)
	}
	if err := col.SoftDelete(999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	// Get sigue viendo el registro, los listados por defecto no
	got, err := col.Get(p.ID)
	if err != nil {
		t.Fatalf("Get after delete error: %v", err)
	}
	if got.Active {
		t.Fatalf("expected active=false")
	}
	if n := len(col.SelectActive(false, nil)); n != 0 {
		t.Fatalf("expected hidden by default, got %d", n)
	}
	if n := len(col.SelectActive(true, nil)); n != 1 {
		t.Fatalf("expected visible with includeInactive, got %d", n)
	}
}

func TestSoftCollection_SelectOrdersByID(t *testing.T) {
	col := NewSoftCollection[pets.Pet]()
	for i := 0; i < 5; i++ {
		col.Insert(pets.Pet{Name: "x", Active: true})
	}

	out := col.Select(nil)
	for i := 1; i < len(out); i++ {
		if out[i-1].ID >= out[i].ID {
			t.Fatalf("expected ascending ids, got %v then %v", out[i-1].ID, out[i].ID)
		}
	}
}

func TestSoftCollection_SelectOrdered(t *testing.T) {
	col := NewSoftCollection[pets.Pet]()
	col.RegisterOrder("name", func(a, b pets.Pet) bool { return a.Name < b.Name })

	col.Insert(pets.Pet{Name: "zeta", Active: true}) // id 1
	col.Insert(pets.Pet{Name: "alfa", Active: true}) // id 2
	col.Insert(pets.Pet{Name: "alfa", Active: true}) // id 3

	out, err := col.SelectOrdered("name", nil)
	if err != nil {
		t.Fatalf("SelectOrdered error: %v", err)
	}
	// empate en "alfa" resuelto por id ascendente
	if out[0].ID != 2 || out[1].ID != 3 || out[2].ID != 1 {
		t.Fatalf("expected ids 2,3,1; got %d,%d,%d", out[0].ID, out[1].ID, out[2].ID)
	}

	// clave vacía = orden por id
	out, err = col.SelectOrdered("", nil)
	if err != nil {
		t.Fatalf("SelectOrdered error: %v", err)
	}
	if out[0].ID != 1 {
		t.Fatalf("empty key must order by id, got %d first", out[0].ID)
	}

	if _, err := col.SelectOrdered("color", nil); !errors.Is(err, ErrUnknownOrderKey) {
		t.Fatalf("expected ErrUnknownOrderKey, got %v", err)
	}
}

func TestSightingRepo_ListsNewestFirst(t *testing.T) {
	store := NewStore()
	repo := NewSightingRepo(store)

	older, _ := repo.Create(context.Background(), sightings.Sighting{
		PetID: 1, OwnerID: 7, Coordinates: "0,0", Active: true,
		SightedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	newer, _ := repo.Create(context.Background(), sightings.Sighting{
		PetID: 1, OwnerID: 7, Coordinates: "0,0", Active: true,
		SightedOn: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	out, err := repo.ListByPet(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("ListByPet error: %v", err)
	}
	if out[0].ID != newer.ID || out[1].ID != older.ID {
		t.Fatalf("expected newest first, got ids %d,%d", out[0].ID, out[1].ID)
	}

	// a igual fecha, el id más alto primero
	tied, _ := repo.Create(context.Background(), sightings.Sighting{
		PetID: 1, OwnerID: 7, Coordinates: "0,0", Active: true,
		SightedOn: newer.SightedOn,
	})
	out, _ = repo.ListByPet(context.Background(), 1, false)
	if out[0].ID != tied.ID || out[1].ID != newer.ID {
		t.Fatalf("expected tie broken by highest id, got ids %d,%d", out[0].ID, out[1].ID)
	}

	byOwner, _ := repo.ListByOwner(context.Background(), 7, false)
	if byOwner[0].ID != tied.ID {
		t.Fatalf("ListByOwner must also be newest first, got id %d", byOwner[0].ID)
	}
}

func TestStore_InTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	petRepo := NewPetRepo(store)
	sightingRepo := NewSightingRepo(store)

	p, _ := petRepo.Create(context.Background(), pets.Pet{Name: "a", Status: pets.StatusLostOwn, Active: true})
	sig, _ := sightingRepo.Create(context.Background(), sightings.Sighting{PetID: p.ID, Coordinates: "0,0", Active: true})

	boom := errors.New("boom")
	err := store.InTx(context.Background(), func(ctx context.Context) error {
		p.Status = pets.StatusRecovered
		if _, err := petRepo.Update(ctx, p); err != nil {
			return err
		}
		if _, err := sightingRepo.SoftDeleteByPet(ctx, p.ID); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("expected fn error back, got %v", err)
	}

	// nada quedó a medias
	storedPet, _ := petRepo.GetByID(context.Background(), p.ID)
	if storedPet.Status != pets.StatusLostOwn {
		t.Fatalf("pet update must be rolled back, got %s", storedPet.Status)
	}
	storedSig, _ := sightingRepo.GetByID(context.Background(), sig.ID)
	if !storedSig.Active {
		t.Fatalf("sighting cascade must be rolled back")
	}
}

func TestStore_InTx_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	petRepo := NewPetRepo(store)
	sightingRepo := NewSightingRepo(store)

	p, _ := petRepo.Create(context.Background(), pets.Pet{Name: "a", Status: pets.StatusLostOwn, Active: true})
	sightingRepo.Create(context.Background(), sightings.Sighting{PetID: p.ID, Coordinates: "0,0", Active: true})

	err := store.InTx(context.Background(), func(ctx context.Context) error {
		p.Status = pets.StatusRecovered
		if _, err := petRepo.Update(ctx, p); err != nil {
			return err
		}
		n, err := sightingRepo.SoftDeleteByPet(ctx, p.ID)
		if err != nil {
			return err
		}
		if n != 1 {
			t.Fatalf("expected 1 deactivated, got %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx error: %v", err)
	}

	active, _ := sightingRepo.CountActive(context.Background())
	if active != 0 {
		t.Fatalf("expected cascade committed, %d still active", active)
	}
}
