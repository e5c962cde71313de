package scoring

import (
	"errors"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/player"
)

var ErrInvalidRules = errors.New("invalid scoring rules")

// Rules is the points policy table. Position keyed maps treat a missing
// position as a zero coefficient.
type Rules struct {
	ShortAppearancePoints  int `json:"short_appearance_points"`
	FullAppearancePoints   int `json:"full_appearance_points"`
	FullAppearanceMinutes  int `json:"full_appearance_minutes"`
	AssistPoints           int `json:"assist_points"`
	CleanSheetMinMinutes   int `json:"clean_sheet_min_minutes"`
	GoalsConcededPer       int `json:"goals_conceded_per"`
	SavesPer               int `json:"saves_per"`
	SavePoints             int `json:"save_points"`
	PenaltySavedPoints     int `json:"penalty_saved_points"`
	PenaltyMissedPoints    int `json:"penalty_missed_points"`
	OwnGoalPoints          int `json:"own_goal_points"`
	YellowCardPoints       int `json:"yellow_card_points"`
	RedCardPoints          int `json:"red_card_points"`
	DefensiveContribPoints int `json:"defensive_contribution_points"`

	GoalPoints          map[player.Position]int `json:"goal_points"`
	CleanSheetPoints    map[player.Position]int `json:"clean_sheet_points"`
	GoalsConcededPoints map[player.Position]int `json:"goals_conceded_points"`
	// DefensiveContribThreshold gates the defensive contribution bonus per
	// position. Positions without an entry never earn it.
	DefensiveContribThreshold map[player.Position]int `json:"defensive_contribution_threshold"`
}

// DefaultRules returns the 2025/26 Premier League fantasy table.
func DefaultRules() Rules {
	return Rules{
		ShortAppearancePoints:  1,
		FullAppearancePoints:   2,
		FullAppearanceMinutes:  60,
		AssistPoints:           3,
		CleanSheetMinMinutes:   60,
		GoalsConcededPer:       2,
		SavesPer:               3,
		SavePoints:             1,
		PenaltySavedPoints:     5,
		PenaltyMissedPoints:    -2,
		OwnGoalPoints:          -2,
		YellowCardPoints:       -1,
		RedCardPoints:          -3,
		DefensiveContribPoints: 2,
		GoalPoints: map[player.Position]int{
			player.PositionGoalkeeper: 10,
			player.PositionDefender:   6,
			player.PositionMidfielder: 5,
			player.PositionForward:    4,
		},
		CleanSheetPoints: map[player.Position]int{
			player.PositionGoalkeeper: 4,
			player.PositionDefender:   4,
			player.PositionMidfielder: 1,
		},
		GoalsConcededPoints: map[player.Position]int{
			player.PositionGoalkeeper: -1,
			player.PositionDefender:   -1,
		},
		DefensiveContribThreshold: map[player.Position]int{
			player.PositionDefender:   10,
			player.PositionMidfielder: 12,
			player.PositionForward:    12,
		},
	}
}

func (r Rules) Validate() error {
	if r.FullAppearanceMinutes <= 0 {
		return fmt.Errorf("%w: full appearance minutes must be greater than zero", ErrInvalidRules)
	}
	if r.GoalsConcededPer <= 0 {
		return fmt.Errorf("%w: goals conceded divisor must be greater than zero", ErrInvalidRules)
	}
	if r.SavesPer <= 0 {
		return fmt.Errorf("%w: saves divisor must be greater than zero", ErrInvalidRules)
	}
	for pos, threshold := range r.DefensiveContribThreshold {
		if !pos.Valid() {
			return fmt.Errorf("%w: unknown position %q in defensive contribution threshold", ErrInvalidRules, pos)
		}
		if threshold <= 0 {
			return fmt.Errorf("%w: defensive contribution threshold for %s must be greater than zero", ErrInvalidRules, pos)
		}
	}
	for _, table := range []map[player.Position]int{r.GoalPoints, r.CleanSheetPoints, r.GoalsConcededPoints} {
		for pos := range table {
			if !pos.Valid() {
				return fmt.Errorf("%w: unknown position %q", ErrInvalidRules, pos)
			}
		}
	}
	return nil
}

// RulesOverride is a partial Rules. Nil fields keep the base value, so an
// override can set a coefficient to zero.
type RulesOverride struct {
	ShortAppearancePoints  *int `json:"short_appearance_points"`
	FullAppearancePoints   *int `json:"full_appearance_points"`
	FullAppearanceMinutes  *int `json:"full_appearance_minutes"`
	AssistPoints           *int `json:"assist_points"`
	CleanSheetMinMinutes   *int `json:"clean_sheet_min_minutes"`
	GoalsConcededPer       *int `json:"goals_conceded_per"`
	SavesPer               *int `json:"saves_per"`
	SavePoints             *int `json:"save_points"`
	PenaltySavedPoints     *int `json:"penalty_saved_points"`
	PenaltyMissedPoints    *int `json:"penalty_missed_points"`
	OwnGoalPoints          *int `json:"own_goal_points"`
	YellowCardPoints       *int `json:"yellow_card_points"`
	RedCardPoints          *int `json:"red_card_points"`
	DefensiveContribPoints *int `json:"defensive_contribution_points"`

	GoalPoints                map[player.Position]int `json:"goal_points"`
	CleanSheetPoints          map[player.Position]int `json:"clean_sheet_points"`
	GoalsConcededPoints       map[player.Position]int `json:"goals_conceded_points"`
	DefensiveContribThreshold map[player.Position]int `json:"defensive_contribution_threshold"`
}

// Merge overlays every set field of override onto r. Position tables are
// merged per key.
func (r Rules) Merge(override RulesOverride) Rules {
	out := r
	mergeInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	mergeInt(&out.ShortAppearancePoints, override.ShortAppearancePoints)
	mergeInt(&out.FullAppearancePoints, override.FullAppearancePoints)
	mergeInt(&out.FullAppearanceMinutes, override.FullAppearanceMinutes)
	mergeInt(&out.AssistPoints, override.AssistPoints)
	mergeInt(&out.CleanSheetMinMinutes, override.CleanSheetMinMinutes)
	mergeInt(&out.GoalsConcededPer, override.GoalsConcededPer)
	mergeInt(&out.SavesPer, override.SavesPer)
	mergeInt(&out.SavePoints, override.SavePoints)
	mergeInt(&out.PenaltySavedPoints, override.PenaltySavedPoints)
	mergeInt(&out.PenaltyMissedPoints, override.PenaltyMissedPoints)
	mergeInt(&out.OwnGoalPoints, override.OwnGoalPoints)
	mergeInt(&out.YellowCardPoints, override.YellowCardPoints)
	mergeInt(&out.RedCardPoints, override.RedCardPoints)
	mergeInt(&out.DefensiveContribPoints, override.DefensiveContribPoints)

	out.GoalPoints = mergeTable(r.GoalPoints, override.GoalPoints)
	out.CleanSheetPoints = mergeTable(r.CleanSheetPoints, override.CleanSheetPoints)
	out.GoalsConcededPoints = mergeTable(r.GoalsConcededPoints, override.GoalsConcededPoints)
	out.DefensiveContribThreshold = mergeTable(r.DefensiveContribThreshold, override.DefensiveContribThreshold)
	return out
}

func mergeTable(base, override map[player.Position]int) map[player.Position]int {
	if len(override) == 0 {
		return base
	}
	out := make(map[player.Position]int, len(base)+len(override))
	for pos, v := range base {
		out[pos] = v
	}
	for pos, v := range override {
		out[pos] = v
	}
	return out
}
