package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
)

type historyKey struct {
	entryID int
	event   int
}

type H2HRepository struct {
	mu      sync.RWMutex
	entries map[int][]h2h.Entry
	matches map[int][]h2h.Match
	history map[historyKey]h2h.ManagerGWHistory
}

func NewH2HRepository(entries []h2h.Entry, matches []h2h.Match, history []h2h.ManagerGWHistory) *H2HRepository {
	entriesByLeague := make(map[int][]h2h.Entry)
	for _, entry := range entries {
		entriesByLeague[entry.LeagueID] = append(entriesByLeague[entry.LeagueID], entry)
	}
	for leagueID := range entriesByLeague {
		slices.SortFunc(entriesByLeague[leagueID], func(a, b h2h.Entry) int { return a.ID - b.ID })
	}

	matchesByLeague := make(map[int][]h2h.Match)
	for _, match := range matches {
		matchesByLeague[match.LeagueID] = append(matchesByLeague[match.LeagueID], match)
	}
	for leagueID := range matchesByLeague {
		slices.SortStableFunc(matchesByLeague[leagueID], func(a, b h2h.Match) int { return a.Event - b.Event })
	}

	historyByKey := make(map[historyKey]h2h.ManagerGWHistory, len(history))
	for _, item := range history {
		historyByKey[historyKey{entryID: item.EntryID, event: item.Event}] = item
	}

	return &H2HRepository{
		entries: entriesByLeague,
		matches: matchesByLeague,
		history: historyByKey,
	}
}

func (r *H2HRepository) ListEntries(_ context.Context, leagueID int) ([]h2h.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.entries[leagueID]
	out := make([]h2h.Entry, 0, len(items))
	out = append(out, items...)
	return out, nil
}

// ListMatches copies winners so callers cannot mutate stored results.
func (r *H2HRepository) ListMatches(_ context.Context, leagueID int) ([]h2h.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.matches[leagueID]
	out := make([]h2h.Match, 0, len(items))
	for _, item := range items {
		if item.Winner != nil {
			winner := *item.Winner
			item.Winner = &winner
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *H2HRepository) GetHistory(_ context.Context, entryID, event int) (h2h.ManagerGWHistory, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.history[historyKey{entryID: entryID, event: event}]
	return item, ok, nil
}
