package h2h

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMatch   = errors.New("invalid h2h match")
	ErrDuplicateMatch = errors.New("duplicate h2h match")
	ErrNotInMatch     = errors.New("entry did not play in match")
)

// AverageEntryID stands in for the league-average opponent in leagues with an
// odd number of managers.
const AverageEntryID = 0

// Entry is one manager's team in an H2H league.
type Entry struct {
	ID         int
	LeagueID   int
	Name       string
	PlayerName string
}

// Match is one H2H fixture. Winner is nil for a draw.
type Match struct {
	LeagueID     int
	Event        int
	Entry1ID     int
	Entry2ID     int
	Entry1Points int
	Entry2Points int
	Winner       *int
}

type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// Score maps a result to the value used for expected-win comparisons.
func (r Result) Score() float64 {
	switch r {
	case ResultWin:
		return 1
	case ResultDraw:
		return 0.5
	default:
		return 0
	}
}

func (m Match) Involves(entryID int) bool {
	return m.Entry1ID == entryID || m.Entry2ID == entryID
}

// Sides returns the points and id for entryID and its opponent.
func (m Match) Sides(entryID int) (points, opponentID, opponentPoints int, err error) {
	switch entryID {
	case m.Entry1ID:
		return m.Entry1Points, m.Entry2ID, m.Entry2Points, nil
	case m.Entry2ID:
		return m.Entry2Points, m.Entry1ID, m.Entry1Points, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: entry=%d event=%d", ErrNotInMatch, entryID, m.Event)
	}
}

// ResultFor returns the match result from entryID's side.
func (m Match) ResultFor(entryID int) (Result, error) {
	if !m.Involves(entryID) {
		return "", fmt.Errorf("%w: entry=%d event=%d", ErrNotInMatch, entryID, m.Event)
	}
	if m.Winner == nil {
		return ResultDraw, nil
	}
	if *m.Winner == entryID {
		return ResultWin, nil
	}
	return ResultLoss, nil
}

type pairKey struct {
	leagueID int
	event    int
	low      int
	high     int
}

// ValidateMatches checks that every match has two distinct sides, a winner
// from one of them, and that each unordered pair meets once per event.
func ValidateMatches(matches []Match) error {
	seen := make(map[pairKey]struct{}, len(matches))
	for _, match := range matches {
		if match.Entry1ID == match.Entry2ID {
			return fmt.Errorf("%w: entry %d plays itself in event %d", ErrInvalidMatch, match.Entry1ID, match.Event)
		}
		if match.Winner != nil && !match.Involves(*match.Winner) {
			return fmt.Errorf("%w: winner %d not in event %d match", ErrInvalidMatch, *match.Winner, match.Event)
		}

		key := pairKey{
			leagueID: match.LeagueID,
			event:    match.Event,
			low:      min(match.Entry1ID, match.Entry2ID),
			high:     max(match.Entry1ID, match.Entry2ID),
		}
		if _, exists := seen[key]; exists {
			return fmt.Errorf("%w: league=%d event=%d entries=%d,%d", ErrDuplicateMatch, key.leagueID, key.event, key.low, key.high)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ManagerGWHistory is one entry's derived gameweek summary.
type ManagerGWHistory struct {
	EntryID       int
	Event         int
	Points        int
	Transfers     int
	TransferCost  int
	PointsOnBench int
	Rank          int
}
