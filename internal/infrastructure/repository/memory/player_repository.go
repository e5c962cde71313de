package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := slices.Clone(players)
	slices.SortFunc(items, func(a, b player.Player) int { return a.ID - b.ID })
	return &PlayerRepository{players: items}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	out = append(out, r.players...)
	return out, nil
}

type PlayerStatsRepository struct {
	mu         sync.RWMutex
	byGameweek map[int][]playerstats.StatLine
}

// NewPlayerStatsRepository fills a missing stat position from the player
// list, matching the join the postgres store performs.
func NewPlayerStatsRepository(stats []playerstats.StatLine, players []player.Player) *PlayerStatsRepository {
	positions := make(map[int]player.Position, len(players))
	for _, p := range players {
		positions[p.ID] = p.Position
	}

	byGameweek := make(map[int][]playerstats.StatLine)
	for _, line := range stats {
		if line.Position == "" {
			line.Position = positions[line.PlayerID]
		}
		byGameweek[line.Gameweek] = append(byGameweek[line.Gameweek], line)
	}
	for gw := range byGameweek {
		slices.SortFunc(byGameweek[gw], func(a, b playerstats.StatLine) int { return a.PlayerID - b.PlayerID })
	}

	return &PlayerStatsRepository{byGameweek: byGameweek}
}

func (r *PlayerStatsRepository) ListByGameweek(_ context.Context, gw int) ([]playerstats.StatLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byGameweek[gw]
	out := make([]playerstats.StatLine, 0, len(items))
	out = append(out, items...)
	return out, nil
}
