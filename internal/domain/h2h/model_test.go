package h2h

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestMatch_ResultFor(t *testing.T) {
	match := Match{LeagueID: 9, Event: 3, Entry1ID: 1, Entry2ID: 2, Entry1Points: 61, Entry2Points: 58, Winner: intPtr(1)}

	tests := []struct {
		entryID int
		want    Result
		score   float64
	}{
		{entryID: 1, want: ResultWin, score: 1},
		{entryID: 2, want: ResultLoss, score: 0},
	}
	for _, tt := range tests {
		got, err := match.ResultFor(tt.entryID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want || got.Score() != tt.score {
			t.Fatalf("entry %d: got=%s score=%v", tt.entryID, got, got.Score())
		}
	}

	draw := Match{Event: 4, Entry1ID: 1, Entry2ID: 2, Entry1Points: 50, Entry2Points: 50}
	if got, _ := draw.ResultFor(2); got != ResultDraw || got.Score() != 0.5 {
		t.Fatalf("expected draw, got %s", got)
	}

	if _, err := match.ResultFor(3); !errors.Is(err, ErrNotInMatch) {
		t.Fatalf("expected ErrNotInMatch, got %v", err)
	}
}

func TestMatch_Sides(t *testing.T) {
	match := Match{Event: 3, Entry1ID: 1, Entry2ID: 2, Entry1Points: 61, Entry2Points: 58}
	points, opponent, opponentPoints, err := match.Sides(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points != 58 || opponent != 1 || opponentPoints != 61 {
		t.Fatalf("unexpected sides: points=%d opponent=%d opponent_points=%d", points, opponent, opponentPoints)
	}
}

func TestValidateMatches(t *testing.T) {
	tests := []struct {
		name      string
		matches   []Match
		targetErr error
	}{
		{
			name: "valid round",
			matches: []Match{
				{LeagueID: 9, Event: 1, Entry1ID: 1, Entry2ID: 2, Winner: intPtr(2)},
				{LeagueID: 9, Event: 1, Entry1ID: 3, Entry2ID: AverageEntryID},
				{LeagueID: 9, Event: 2, Entry1ID: 2, Entry2ID: 1},
			},
		},
		{
			name: "mirrored duplicate",
			matches: []Match{
				{LeagueID: 9, Event: 1, Entry1ID: 1, Entry2ID: 2},
				{LeagueID: 9, Event: 1, Entry1ID: 2, Entry2ID: 1},
			},
			targetErr: ErrDuplicateMatch,
		},
		{
			name:      "self match",
			matches:   []Match{{LeagueID: 9, Event: 1, Entry1ID: 4, Entry2ID: 4}},
			targetErr: ErrInvalidMatch,
		},
		{
			name:      "foreign winner",
			matches:   []Match{{LeagueID: 9, Event: 1, Entry1ID: 1, Entry2ID: 2, Winner: intPtr(5)}},
			targetErr: ErrInvalidMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMatches(tt.matches)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}
