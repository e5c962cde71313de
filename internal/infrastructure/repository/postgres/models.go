package postgres

import (
	"database/sql"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
)

type eventTableModel struct {
	ID           int          `db:"id"`
	Finished     bool         `db:"finished"`
	IsCurrent    bool         `db:"is_current"`
	DataChecked  bool         `db:"data_checked"`
	DeadlineTime sql.NullTime `db:"deadline_time"`
}

func (m eventTableModel) toDomain() gameweek.Event {
	out := gameweek.Event{
		ID:          m.ID,
		Finished:    m.Finished,
		IsCurrent:   m.IsCurrent,
		DataChecked: m.DataChecked,
	}
	if m.DeadlineTime.Valid {
		out.DeadlineTime = m.DeadlineTime.Time.UTC()
	}
	return out
}

type playerTableModel struct {
	ID       int    `db:"id"`
	TeamID   int    `db:"team_id"`
	WebName  string `db:"web_name"`
	Position string `db:"position"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:       m.ID,
		TeamID:   m.TeamID,
		WebName:  m.WebName,
		Position: player.Position(m.Position),
	}
}

type statLineTableModel struct {
	PlayerID              int           `db:"player_id"`
	Gameweek              int           `db:"gameweek"`
	Position              string        `db:"position"`
	Minutes               int           `db:"minutes"`
	GoalsScored           int           `db:"goals_scored"`
	Assists               int           `db:"assists"`
	CleanSheets           int           `db:"clean_sheets"`
	GoalsConceded         int           `db:"goals_conceded"`
	OwnGoals              int           `db:"own_goals"`
	PenaltiesSaved        int           `db:"penalties_saved"`
	PenaltiesMissed       int           `db:"penalties_missed"`
	YellowCards           int           `db:"yellow_cards"`
	RedCards              int           `db:"red_cards"`
	Saves                 int           `db:"saves"`
	Bonus                 int           `db:"bonus"`
	BPS                   int           `db:"bps"`
	DefensiveContribution int           `db:"defensive_contribution"`
	TotalPoints           sql.NullInt64 `db:"total_points"`
}

func (m statLineTableModel) toDomain() playerstats.StatLine {
	return playerstats.StatLine{
		PlayerID:              m.PlayerID,
		Gameweek:              m.Gameweek,
		Position:              player.Position(m.Position),
		Minutes:               m.Minutes,
		GoalsScored:           m.GoalsScored,
		Assists:               m.Assists,
		CleanSheets:           m.CleanSheets,
		GoalsConceded:         m.GoalsConceded,
		OwnGoals:              m.OwnGoals,
		PenaltiesSaved:        m.PenaltiesSaved,
		PenaltiesMissed:       m.PenaltiesMissed,
		YellowCards:           m.YellowCards,
		RedCards:              m.RedCards,
		Saves:                 m.Saves,
		Bonus:                 m.Bonus,
		BPS:                   m.BPS,
		DefensiveContribution: m.DefensiveContribution,
		ProviderTotal:         nullInt64ToIntPtr(m.TotalPoints),
	}
}

type pickTableModel struct {
	EntryID        int  `db:"entry_id"`
	Gameweek       int  `db:"gameweek"`
	PlayerID       int  `db:"player_id"`
	LineupPosition int  `db:"lineup_position"`
	Multiplier     int  `db:"multiplier"`
	IsCaptain      bool `db:"is_captain"`
	IsViceCaptain  bool `db:"is_vice_captain"`
}

func (m pickTableModel) toDomain() fantasy.SquadPick {
	return fantasy.SquadPick{
		EntryID:        m.EntryID,
		Gameweek:       m.Gameweek,
		PlayerID:       m.PlayerID,
		LineupPosition: m.LineupPosition,
		Multiplier:     m.Multiplier,
		IsCaptain:      m.IsCaptain,
		IsViceCaptain:  m.IsViceCaptain,
	}
}

type chipUsageTableModel struct {
	EntryID  int    `db:"entry_id"`
	Gameweek int    `db:"gameweek"`
	Chip     string `db:"chip"`
}

type entryTableModel struct {
	LeagueID   int    `db:"league_id"`
	EntryID    int    `db:"entry_id"`
	EntryName  string `db:"entry_name"`
	PlayerName string `db:"player_name"`
}

func (m entryTableModel) toDomain() h2h.Entry {
	return h2h.Entry{
		ID:         m.EntryID,
		LeagueID:   m.LeagueID,
		Name:       m.EntryName,
		PlayerName: m.PlayerName,
	}
}

type matchTableModel struct {
	LeagueID     int           `db:"league_id"`
	Event        int           `db:"event"`
	Entry1ID     int           `db:"entry_1_id"`
	Entry1Points int           `db:"entry_1_points"`
	Entry2ID     int           `db:"entry_2_id"`
	Entry2Points int           `db:"entry_2_points"`
	Winner       sql.NullInt64 `db:"winner"`
}

func (m matchTableModel) toDomain() h2h.Match {
	return h2h.Match{
		LeagueID:     m.LeagueID,
		Event:        m.Event,
		Entry1ID:     m.Entry1ID,
		Entry2ID:     m.Entry2ID,
		Entry1Points: m.Entry1Points,
		Entry2Points: m.Entry2Points,
		Winner:       nullInt64ToIntPtr(m.Winner),
	}
}

type historyTableModel struct {
	EntryID       int `db:"entry_id"`
	Event         int `db:"event"`
	Points        int `db:"points"`
	Transfers     int `db:"transfers"`
	TransferCost  int `db:"transfer_cost"`
	PointsOnBench int `db:"points_on_bench"`
	Rank          int `db:"rank"`
}

func (m historyTableModel) toDomain() h2h.ManagerGWHistory {
	return h2h.ManagerGWHistory{
		EntryID:       m.EntryID,
		Event:         m.Event,
		Points:        m.Points,
		Transfers:     m.Transfers,
		TransferCost:  m.TransferCost,
		PointsOnBench: m.PointsOnBench,
		Rank:          m.Rank,
	}
}
