package playerstats

import "github.com/gregleo12/fpl-sub001/internal/domain/player"

// StatLine is one player's raw match statistics for a gameweek.
// Once the gameweek is completed the line is immutable.
type StatLine struct {
	PlayerID              int
	Gameweek              int
	Position              player.Position
	Minutes               int
	GoalsScored           int
	Assists               int
	CleanSheets           int
	GoalsConceded         int
	OwnGoals              int
	PenaltiesSaved        int
	PenaltiesMissed       int
	YellowCards           int
	RedCards              int
	Saves                 int
	Bonus                 int
	BPS                   int
	DefensiveContribution int
	// ProviderTotal is the provider-reported total points, nil when unknown.
	ProviderTotal *int
}

func (s StatLine) Played() bool {
	return s.Minutes > 0
}

// IndexByPlayer builds a lookup keyed by player id. Later lines win on duplicates.
func IndexByPlayer(lines []StatLine) map[int]StatLine {
	out := make(map[int]StatLine, len(lines))
	for _, line := range lines {
		out[line.PlayerID] = line
	}
	return out
}
