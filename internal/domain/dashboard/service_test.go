package dashboard

import (
	"context"
	"testing"

	"pet-alert/internal/domain/pets"
	"pet-alert/internal/domain/sightings"
)

type fakePets struct {
	pets.Repository
	byStatus map[pets.Status]int
}

func (f fakePets) CountByStatus(ctx context.Context, status pets.Status) (int, error) {
	return f.byStatus[status], nil
}

type fakeSightings struct {
	sightings.Repository
	active int
}

func (f fakeSightings) CountActive(ctx context.Context) (int, error) {
	return f.active, nil
}

func TestService_Stats(t *testing.T) {
	svc := NewService(
		fakePets{byStatus: map[pets.Status]int{
			pets.StatusLostOwn:   2,
			pets.StatusLostOther: 3,
			pets.StatusRecovered: 5,
			pets.StatusAdopted:   1,
		}},
		fakeSightings{active: 7},
	)

	got, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}

	// perdidas = propias perdidas + ajenas encontradas
	if got.Lost != 5 {
		t.Fatalf("expected 5 lost, got %d", got.Lost)
	}
	if got.Recovered != 5 || got.Adopted != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if got.PendingSightings != 7 {
		t.Fatalf("expected 7 pending sightings, got %d", got.PendingSightings)
	}
}
