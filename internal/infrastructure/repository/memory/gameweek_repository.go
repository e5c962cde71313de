package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu     sync.RWMutex
	events []gameweek.Event
}

func NewGameweekRepository(events []gameweek.Event) *GameweekRepository {
	items := slices.Clone(events)
	slices.SortFunc(items, func(a, b gameweek.Event) int { return a.ID - b.ID })
	return &GameweekRepository{events: items}
}

func (r *GameweekRepository) ListEvents(_ context.Context) ([]gameweek.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Event, 0, len(r.events))
	out = append(out, r.events...)
	return out, nil
}
