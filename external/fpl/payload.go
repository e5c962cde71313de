package fpl

import (
	"strings"
	"time"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
)

type bootstrapEnvelope struct {
	Events   []eventItem   `json:"events"`
	Elements []elementItem `json:"elements"`
}

type eventItem struct {
	ID           int    `json:"id"`
	Finished     bool   `json:"finished"`
	IsCurrent    bool   `json:"is_current"`
	DataChecked  bool   `json:"data_checked"`
	DeadlineTime string `json:"deadline_time"`
}

type elementItem struct {
	ID          int    `json:"id"`
	Team        int    `json:"team"`
	WebName     string `json:"web_name"`
	ElementType int    `json:"element_type"`
}

type liveEnvelope struct {
	Elements []liveElement `json:"elements"`
}

type liveElement struct {
	ID    int       `json:"id"`
	Stats liveStats `json:"stats"`
}

type liveStats struct {
	Minutes               int  `json:"minutes"`
	GoalsScored           int  `json:"goals_scored"`
	Assists               int  `json:"assists"`
	CleanSheets           int  `json:"clean_sheets"`
	GoalsConceded         int  `json:"goals_conceded"`
	OwnGoals              int  `json:"own_goals"`
	PenaltiesSaved        int  `json:"penalties_saved"`
	PenaltiesMissed       int  `json:"penalties_missed"`
	YellowCards           int  `json:"yellow_cards"`
	RedCards              int  `json:"red_cards"`
	Saves                 int  `json:"saves"`
	Bonus                 int  `json:"bonus"`
	BPS                   int  `json:"bps"`
	DefensiveContribution int  `json:"defensive_contribution"`
	TotalPoints           *int `json:"total_points"`
}

type picksEnvelope struct {
	ActiveChip   *string          `json:"active_chip"`
	EntryHistory entryHistoryItem `json:"entry_history"`
	Picks        []pickItem       `json:"picks"`
}

type pickItem struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

type entryHistoryItem struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	Rank               int `json:"rank"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
	PointsOnBench      int `json:"points_on_bench"`
}

type historyEnvelope struct {
	Current []entryHistoryItem `json:"current"`
	Chips   []chipItem         `json:"chips"`
}

type chipItem struct {
	Name  string `json:"name"`
	Event int    `json:"event"`
}

type matchesEnvelope struct {
	HasNext bool        `json:"has_next"`
	Page    int         `json:"page"`
	Results []matchItem `json:"results"`
}

// matchItem sides are null for the league-average opponent.
type matchItem struct {
	Event        int  `json:"event"`
	Entry1Entry  *int `json:"entry_1_entry"`
	Entry1Points int  `json:"entry_1_points"`
	Entry2Entry  *int `json:"entry_2_entry"`
	Entry2Points int  `json:"entry_2_points"`
	Winner       *int `json:"winner"`
}

type standingsEnvelope struct {
	Standings struct {
		HasNext bool            `json:"has_next"`
		Page    int             `json:"page"`
		Results []standingEntry `json:"results"`
	} `json:"standings"`
}

type standingEntry struct {
	Entry      int    `json:"entry"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
}

func mapEvent(item eventItem) gameweek.Event {
	out := gameweek.Event{
		ID:          item.ID,
		Finished:    item.Finished,
		IsCurrent:   item.IsCurrent,
		DataChecked: item.DataChecked,
	}
	if parsed := parseDeadline(item.DeadlineTime); parsed != nil {
		out.DeadlineTime = *parsed
	}
	return out
}

func mapElement(item elementItem) (player.Player, bool) {
	position, err := player.PositionFromElementType(item.ElementType)
	if err != nil || item.ID <= 0 {
		return player.Player{}, false
	}
	return player.Player{
		ID:       item.ID,
		TeamID:   item.Team,
		WebName:  strings.TrimSpace(item.WebName),
		Position: position,
	}, true
}

func mapLiveElement(gw int, item liveElement) playerstats.StatLine {
	s := item.Stats
	return playerstats.StatLine{
		PlayerID:              item.ID,
		Gameweek:              gw,
		Minutes:               s.Minutes,
		GoalsScored:           s.GoalsScored,
		Assists:               s.Assists,
		CleanSheets:           s.CleanSheets,
		GoalsConceded:         s.GoalsConceded,
		OwnGoals:              s.OwnGoals,
		PenaltiesSaved:        s.PenaltiesSaved,
		PenaltiesMissed:       s.PenaltiesMissed,
		YellowCards:           s.YellowCards,
		RedCards:              s.RedCards,
		Saves:                 s.Saves,
		Bonus:                 s.Bonus,
		BPS:                   s.BPS,
		DefensiveContribution: s.DefensiveContribution,
		ProviderTotal:         s.TotalPoints,
	}
}

func mapHistory(entryID int, item entryHistoryItem) h2h.ManagerGWHistory {
	return h2h.ManagerGWHistory{
		EntryID:       entryID,
		Event:         item.Event,
		Points:        item.Points,
		Transfers:     item.EventTransfers,
		TransferCost:  item.EventTransfersCost,
		PointsOnBench: item.PointsOnBench,
		Rank:          item.Rank,
	}
}

// mapChip drops chips the scoring rules do not know about.
func mapChip(raw string) (fantasy.Chip, bool) {
	chip := fantasy.Chip(strings.ToLower(strings.TrimSpace(raw)))
	if chip == fantasy.ChipNone || !chip.Valid() {
		return fantasy.ChipNone, false
	}
	return chip, true
}

func mapMatch(leagueID int, item matchItem) h2h.Match {
	return h2h.Match{
		LeagueID:     leagueID,
		Event:        item.Event,
		Entry1ID:     entryOrAverage(item.Entry1Entry),
		Entry2ID:     entryOrAverage(item.Entry2Entry),
		Entry1Points: item.Entry1Points,
		Entry2Points: item.Entry2Points,
		Winner:       item.Winner,
	}
}

func entryOrAverage(value *int) int {
	if value == nil {
		return h2h.AverageEntryID
	}
	return *value
}

func parseDeadline(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			value := parsed.UTC()
			return &value
		}
	}
	return nil
}
