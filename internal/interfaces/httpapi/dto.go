package httpapi

import (
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
	"github.com/gregleo12/fpl-sub001/internal/usecase"
)

type gameweekRequest struct {
	Gameweek int `validate:"min=1,max=38"`
}

type leagueGameweekRequest struct {
	LeagueID int `validate:"gt=0"`
	Gameweek int `validate:"min=1,max=38"`
}

type entryGameweekRequest struct {
	LeagueID int `validate:"gt=0"`
	EntryID  int `validate:"gt=0"`
	Gameweek int `validate:"min=1,max=38"`
}

type seasonLuckRequest struct {
	LeagueID int    `validate:"gt=0"`
	Preset   string `validate:"omitempty,max=32"`
	Through  int    `validate:"min=0,max=38"`
}

type chipAvailabilityRequest struct {
	EntryID  int `validate:"gt=0"`
	Gameweek int `validate:"min=1,max=38"`
}

type calculatePointsRequest struct {
	Position              string `json:"position" validate:"required,oneof=GKP DEF MID FWD"`
	Minutes               int    `json:"minutes" validate:"min=0,max=130"`
	GoalsScored           int    `json:"goals_scored" validate:"min=0"`
	Assists               int    `json:"assists" validate:"min=0"`
	CleanSheets           int    `json:"clean_sheets" validate:"min=0,max=1"`
	GoalsConceded         int    `json:"goals_conceded" validate:"min=0"`
	OwnGoals              int    `json:"own_goals" validate:"min=0"`
	PenaltiesSaved        int    `json:"penalties_saved" validate:"min=0"`
	PenaltiesMissed       int    `json:"penalties_missed" validate:"min=0"`
	YellowCards           int    `json:"yellow_cards" validate:"min=0,max=2"`
	RedCards              int    `json:"red_cards" validate:"min=0,max=1"`
	Saves                 int    `json:"saves" validate:"min=0"`
	Bonus                 int    `json:"bonus" validate:"min=0,max=3"`
	DefensiveContribution int    `json:"defensive_contribution" validate:"min=0"`
}

func (r calculatePointsRequest) toStatLine() playerstats.StatLine {
	return playerstats.StatLine{
		Minutes:               r.Minutes,
		GoalsScored:           r.GoalsScored,
		Assists:               r.Assists,
		CleanSheets:           r.CleanSheets,
		GoalsConceded:         r.GoalsConceded,
		OwnGoals:              r.OwnGoals,
		PenaltiesSaved:        r.PenaltiesSaved,
		PenaltiesMissed:       r.PenaltiesMissed,
		YellowCards:           r.YellowCards,
		RedCards:              r.RedCards,
		Saves:                 r.Saves,
		Bonus:                 r.Bonus,
		DefensiveContribution: r.DefensiveContribution,
	}
}

type gameweekStatusDTO struct {
	usecase.GameweekStatus
	Outcome usecase.Outcome `json:"outcome"`
	Reason  string          `json:"reason,omitempty"`
}

type entryChipsDTO struct {
	usecase.EntryChips
	Outcome usecase.Outcome `json:"outcome"`
	Reason  string          `json:"reason,omitempty"`
}
