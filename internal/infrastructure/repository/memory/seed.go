package memory

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
)

// Seed is the snapshot a memory store is built from. It mirrors what the
// sync job would have persisted.
type Seed struct {
	Events  []gameweek.Event       `json:"events"`
	Players []player.Player        `json:"players"`
	Stats   []playerstats.StatLine `json:"stats"`
	Picks   []fantasy.SquadPick    `json:"picks"`
	Chips   []fantasy.ChipUsage    `json:"chips"`
	Entries []h2h.Entry            `json:"entries"`
	Matches []h2h.Match            `json:"matches"`
	History []h2h.ManagerGWHistory `json:"history"`
}

// LoadSeed reads a JSON snapshot from disk. An empty path yields an empty seed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return Seed{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var seed Seed
	if err := sonic.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return seed, nil
}

// Repositories groups the memory implementations of every store port.
type Repositories struct {
	Gameweeks   *GameweekRepository
	Players     *PlayerRepository
	PlayerStats *PlayerStatsRepository
	Squads      *SquadRepository
	H2H         *H2HRepository
}

func NewRepositories(seed Seed) Repositories {
	return Repositories{
		Gameweeks:   NewGameweekRepository(seed.Events),
		Players:     NewPlayerRepository(seed.Players),
		PlayerStats: NewPlayerStatsRepository(seed.Stats, seed.Players),
		Squads:      NewSquadRepository(seed.Picks, seed.Chips),
		H2H:         NewH2HRepository(seed.Entries, seed.Matches, seed.History),
	}
}
