package memory

import (
	"context"
	"sync"

	"pet-alert/internal/domain/owners"
	"pet-alert/internal/domain/pets"
	"pet-alert/internal/domain/sightings"
)

// Store agrupa las colecciones del driver memory. Se usa en dev y en los
// tests de integración; no persiste nada.
type Store struct {
	txMu sync.Mutex

	Owners    *SoftCollection[owners.Owner]
	Pets      *SoftCollection[pets.Pet]
	Sightings *SoftCollection[sightings.Sighting]
}

func NewStore() *Store {
	s := &Store{
		Owners:    NewSoftCollection[owners.Owner](),
		Pets:      NewSoftCollection[pets.Pet](),
		Sightings: NewSoftCollection[sightings.Sighting](),
	}

	s.Pets.RegisterOrder("name", func(a, b pets.Pet) bool {
		return a.Name < b.Name
	})
	s.Pets.RegisterOrder("reported_on", func(a, b pets.Pet) bool {
		return a.ReportedOn.Before(b.ReportedOn)
	})

	return s
}

// InTx ejecuta fn todo-o-nada: ante un error se restaura el snapshot
// previo. Las transacciones se serializan entre sí; las lecturas sueltas
// concurrentes no se bloquean, alcanza para dev y tests.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	ownersSnap, ownersNext := s.Owners.Snapshot(), s.Owners.NextID()
	petsSnap, petsNext := s.Pets.Snapshot(), s.Pets.NextID()
	sightingsSnap, sightingsNext := s.Sightings.Snapshot(), s.Sightings.NextID()

	if err := fn(ctx); err != nil {
		s.Owners.Restore(ownersSnap, ownersNext)
		s.Pets.Restore(petsSnap, petsNext)
		s.Sightings.Restore(sightingsSnap, sightingsNext)
		return err
	}
	return nil
}
