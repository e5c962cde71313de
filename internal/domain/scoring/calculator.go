package scoring

import (
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
)

// Breakdown keys.
const (
	TermMinutes               = "minutes"
	TermGoalsScored           = "goals_scored"
	TermAssists               = "assists"
	TermCleanSheets           = "clean_sheets"
	TermGoalsConceded         = "goals_conceded"
	TermSaves                 = "saves"
	TermPenaltiesSaved        = "penalties_saved"
	TermPenaltiesMissed       = "penalties_missed"
	TermOwnGoals              = "own_goals"
	TermYellowCards           = "yellow_cards"
	TermRedCards              = "red_cards"
	TermDefensiveContribution = "defensive_contribution"
	TermBonus                 = "bonus"
)

// Points is the calculator output. Breakdown holds every non-zero term and
// always sums to Total.
type Points struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// Calculator turns raw stat lines into fantasy points under a fixed Rules table.
type Calculator struct {
	rules Rules
}

func NewCalculator(rules Rules) *Calculator {
	return &Calculator{rules: rules}
}

func (c *Calculator) Rules() Rules {
	return c.rules
}

// Calculate scores one stat line for the given position.
func (c *Calculator) Calculate(stat playerstats.StatLine, position player.Position) Points {
	return Calculate(c.rules, stat, position)
}

// Calculate scores one stat line for the given position. It is pure: the
// same input always yields the same Points.
func Calculate(rules Rules, stat playerstats.StatLine, position player.Position) Points {
	out := Points{Breakdown: make(map[string]int)}
	add := func(term string, value int) {
		if value == 0 {
			return
		}
		out.Breakdown[term] += value
		out.Total += value
	}

	switch {
	case stat.Minutes >= rules.FullAppearanceMinutes:
		add(TermMinutes, rules.FullAppearancePoints)
	case stat.Minutes > 0:
		add(TermMinutes, rules.ShortAppearancePoints)
	}

	add(TermGoalsScored, stat.GoalsScored*rules.GoalPoints[position])
	add(TermAssists, stat.Assists*rules.AssistPoints)

	if stat.Minutes >= rules.CleanSheetMinMinutes {
		add(TermCleanSheets, stat.CleanSheets*rules.CleanSheetPoints[position])
	}
	if rules.GoalsConcededPer > 0 {
		add(TermGoalsConceded, (stat.GoalsConceded/rules.GoalsConcededPer)*rules.GoalsConcededPoints[position])
	}
	if rules.SavesPer > 0 {
		add(TermSaves, (stat.Saves/rules.SavesPer)*rules.SavePoints)
	}

	add(TermPenaltiesSaved, stat.PenaltiesSaved*rules.PenaltySavedPoints)
	add(TermPenaltiesMissed, stat.PenaltiesMissed*rules.PenaltyMissedPoints)
	add(TermOwnGoals, stat.OwnGoals*rules.OwnGoalPoints)
	add(TermYellowCards, stat.YellowCards*rules.YellowCardPoints)
	add(TermRedCards, stat.RedCards*rules.RedCardPoints)

	if threshold, ok := rules.DefensiveContribThreshold[position]; ok && threshold > 0 && stat.DefensiveContribution >= threshold {
		add(TermDefensiveContribution, rules.DefensiveContribPoints)
	}

	add(TermBonus, stat.Bonus)
	return out
}

// Mismatch describes a calculator total that disagrees with the provider.
type Mismatch struct {
	Calculated int
	Provider   int
	Delta      int
}

// Compare reports whether the calculated total differs from the provider's.
// A nil provider total never mismatches.
func Compare(points Points, providerTotal *int) (Mismatch, bool) {
	if providerTotal == nil || *providerTotal == points.Total {
		return Mismatch{}, false
	}
	return Mismatch{
		Calculated: points.Total,
		Provider:   *providerTotal,
		Delta:      *providerTotal - points.Total,
	}, true
}
