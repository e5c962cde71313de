package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
)

type squadKey struct {
	entryID  int
	gameweek int
}

type SquadRepository struct {
	mu    sync.RWMutex
	picks map[squadKey][]fantasy.SquadPick
	chips map[int][]fantasy.ChipUsage
}

func NewSquadRepository(picks []fantasy.SquadPick, chips []fantasy.ChipUsage) *SquadRepository {
	byKey := make(map[squadKey][]fantasy.SquadPick)
	for _, pick := range picks {
		key := squadKey{entryID: pick.EntryID, gameweek: pick.Gameweek}
		byKey[key] = append(byKey[key], pick)
	}
	for key := range byKey {
		slices.SortFunc(byKey[key], func(a, b fantasy.SquadPick) int { return a.LineupPosition - b.LineupPosition })
	}

	byEntry := make(map[int][]fantasy.ChipUsage)
	for _, usage := range chips {
		byEntry[usage.EntryID] = append(byEntry[usage.EntryID], usage)
	}
	for entryID := range byEntry {
		slices.SortFunc(byEntry[entryID], func(a, b fantasy.ChipUsage) int { return a.Gameweek - b.Gameweek })
	}

	return &SquadRepository{picks: byKey, chips: byEntry}
}

func (r *SquadRepository) ListPicks(_ context.Context, entryID, gw int) ([]fantasy.SquadPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.picks[squadKey{entryID: entryID, gameweek: gw}]
	out := make([]fantasy.SquadPick, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *SquadRepository) ListChipUsages(_ context.Context, entryIDs []int) ([]fantasy.ChipUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := slices.Clone(entryIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	out := make([]fantasy.ChipUsage, 0)
	for _, entryID := range ids {
		out = append(out, r.chips[entryID]...)
	}
	return out, nil
}
