package usecase

import (
	"context"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
)

// Bootstrap is the upstream season metadata.
type Bootstrap struct {
	Events  []gameweek.Event
	Players []player.Player
}

// EntryPicks is one entry's squad for a gameweek as the live feed reports it.
type EntryPicks struct {
	EntryID    int
	Gameweek   int
	Picks      []fantasy.SquadPick
	ActiveChip fantasy.Chip
	History    h2h.ManagerGWHistory
}

// EntryHistory is one entry's season so far.
type EntryHistory struct {
	EntryID   int
	Gameweeks []h2h.ManagerGWHistory
	Chips     []fantasy.ChipUsage
}

// LiveFeed is the upstream provider. Any call may fail or time out.
type LiveFeed interface {
	FetchBootstrap(ctx context.Context) (Bootstrap, error)
	FetchLiveStats(ctx context.Context, gameweek int) ([]playerstats.StatLine, error)
	FetchPicks(ctx context.Context, entryID, gameweek int) (EntryPicks, error)
	FetchEntryHistory(ctx context.Context, entryID int) (EntryHistory, error)
	FetchH2HMatches(ctx context.Context, leagueID int) ([]h2h.Match, error)
	FetchLeagueEntries(ctx context.Context, leagueID int) ([]h2h.Entry, error)
}

// Store groups the persisted aggregate repositories the engine reads.
type Store struct {
	Gameweeks   gameweek.Repository
	Players     player.Repository
	PlayerStats playerstats.Repository
	Squads      fantasy.Repository
	H2H         h2h.Repository
}
