package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
)

func TestPlayerStatsRepository_FillsPositionFromPlayers(t *testing.T) {
	repo := NewPlayerStatsRepository(
		[]playerstats.StatLine{
			{PlayerID: 12, Gameweek: 5, Minutes: 90},
			{PlayerID: 11, Gameweek: 5, Minutes: 45, Position: player.PositionForward},
			{PlayerID: 11, Gameweek: 6, Minutes: 10},
		},
		[]player.Player{{ID: 12, Position: player.PositionDefender}},
	)

	got, err := repo.ListByGameweek(context.Background(), 5)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(got) != 2 || got[0].PlayerID != 11 {
		t.Fatalf("expected two lines ordered by player, got %+v", got)
	}
	if got[1].Position != player.PositionDefender {
		t.Fatalf("expected position from player list, got %q", got[1].Position)
	}
	if got[0].Position != player.PositionForward {
		t.Fatalf("explicit position must win, got %q", got[0].Position)
	}
}

func TestSquadRepository(t *testing.T) {
	repo := NewSquadRepository(
		[]fantasy.SquadPick{
			{EntryID: 7, Gameweek: 5, PlayerID: 2, LineupPosition: 2},
			{EntryID: 7, Gameweek: 5, PlayerID: 1, LineupPosition: 1},
			{EntryID: 7, Gameweek: 6, PlayerID: 3, LineupPosition: 1},
		},
		[]fantasy.ChipUsage{
			{EntryID: 8, Gameweek: 9, Chip: fantasy.ChipFreeHit},
			{EntryID: 7, Gameweek: 4, Chip: fantasy.ChipBenchBoost},
			{EntryID: 7, Gameweek: 2, Chip: fantasy.ChipWildcard},
		},
	)

	picks, err := repo.ListPicks(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("list picks: %v", err)
	}
	if len(picks) != 2 || picks[0].PlayerID != 1 {
		t.Fatalf("unexpected picks: %+v", picks)
	}

	picks[0].PlayerID = 99
	again, _ := repo.ListPicks(context.Background(), 7, 5)
	if again[0].PlayerID != 1 {
		t.Fatalf("stored picks must not be mutated through results")
	}

	chips, err := repo.ListChipUsages(context.Background(), []int{7, 7})
	if err != nil {
		t.Fatalf("list chips: %v", err)
	}
	if len(chips) != 2 || chips[0].Chip != fantasy.ChipWildcard {
		t.Fatalf("unexpected chips: %+v", chips)
	}
}

func TestH2HRepository(t *testing.T) {
	winner := 7
	repo := NewH2HRepository(
		[]h2h.Entry{{ID: 8, LeagueID: 99}, {ID: 7, LeagueID: 99}, {ID: 5, LeagueID: 1}},
		[]h2h.Match{
			{LeagueID: 99, Event: 2, Entry1ID: 7, Entry2ID: 8},
			{LeagueID: 99, Event: 1, Entry1ID: 7, Entry2ID: 8, Winner: &winner},
		},
		[]h2h.ManagerGWHistory{{EntryID: 7, Event: 1, Points: 60}},
	)
	ctx := context.Background()

	entries, _ := repo.ListEntries(ctx, 99)
	if len(entries) != 2 || entries[0].ID != 7 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	matches, _ := repo.ListMatches(ctx, 99)
	if len(matches) != 2 || matches[0].Event != 1 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
	*matches[0].Winner = 8
	matches, _ = repo.ListMatches(ctx, 99)
	if *matches[0].Winner != 7 {
		t.Fatalf("stored winner must not be mutated through results")
	}

	history, ok, err := repo.GetHistory(ctx, 7, 1)
	if err != nil || !ok || history.Points != 60 {
		t.Fatalf("unexpected history: %+v ok=%v err=%v", history, ok, err)
	}
	if _, ok, _ := repo.GetHistory(ctx, 7, 2); ok {
		t.Fatalf("expected missing history")
	}
}

func TestLoadSeed(t *testing.T) {
	if seed, err := LoadSeed(""); err != nil || len(seed.Events) != 0 {
		t.Fatalf("empty path should give empty seed, got %+v err=%v", seed, err)
	}

	path := filepath.Join(t.TempDir(), "seed.json")
	body := `{"events": [{"ID": 1, "Finished": true}], "entries": [{"ID": 7, "LeagueID": 99}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	repos := NewRepositories(seed)
	events, _ := repos.Gameweeks.ListEvents(context.Background())
	if len(events) != 1 || !events[0].Finished {
		t.Fatalf("unexpected events: %+v", events)
	}
	entries, _ := repos.H2H.ListEntries(context.Background(), 99)
	if len(entries) != 1 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing seed file")
	}
}
