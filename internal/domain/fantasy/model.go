package fantasy

import (
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
)

// Chip is a one-off strategic modifier a manager plays for a gameweek.
type Chip string

const (
	ChipNone          Chip = ""
	ChipWildcard      Chip = "wildcard"
	ChipBenchBoost    Chip = "bboost"
	ChipTripleCaptain Chip = "3xc"
	ChipFreeHit       Chip = "freehit"
)

var AllChips = []Chip{ChipWildcard, ChipBenchBoost, ChipTripleCaptain, ChipFreeHit}

func (c Chip) Valid() bool {
	switch c {
	case ChipWildcard, ChipBenchBoost, ChipTripleCaptain, ChipFreeHit:
		return true
	default:
		return false
	}
}

// Offensive reports whether the chip directly inflates the gameweek score.
func (c Chip) Offensive() bool {
	return c == ChipBenchBoost || c == ChipTripleCaptain
}

// SquadPick is one of the fifteen players an entry picked for a gameweek.
// Lineup positions 1-11 start; 12-15 are the bench in substitution order.
type SquadPick struct {
	EntryID        int
	Gameweek       int
	PlayerID       int
	LineupPosition int
	Multiplier     int
	IsCaptain      bool
	IsViceCaptain  bool
}

// ChipUsage records a chip played by an entry.
type ChipUsage struct {
	EntryID  int
	Gameweek int
	Chip     Chip
}

func (u ChipUsage) Validate() error {
	if u.EntryID <= 0 {
		return fmt.Errorf("entry id must be greater than zero")
	}
	if err := gameweek.ValidateGameweek(u.Gameweek); err != nil {
		return err
	}
	if !u.Chip.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChip, u.Chip)
	}
	return nil
}

// ActiveChip returns the chip an entry played in the given gameweek.
func ActiveChip(usages []ChipUsage, entryID, gw int) Chip {
	for _, usage := range usages {
		if usage.EntryID == entryID && usage.Gameweek == gw {
			return usage.Chip
		}
	}
	return ChipNone
}
