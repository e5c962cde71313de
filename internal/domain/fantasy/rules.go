package fantasy

import (
	"errors"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/player"
)

var (
	ErrInvalidSquadSize       = errors.New("invalid squad size")
	ErrInsufficientFormation  = errors.New("minimum formation requirement not met")
	ErrExceededFormation      = errors.New("maximum formation requirement exceeded")
	ErrUnknownPlayerPosition  = errors.New("unknown player position")
	ErrDuplicatePlayerInSquad = errors.New("duplicate player in squad")
	ErrInvalidLineupPosition  = errors.New("invalid lineup position")
	ErrInvalidCaptaincy       = errors.New("invalid captaincy")
)

// FormationRules is the auto-substitution and lineup policy.
type FormationRules struct {
	SquadSize     int                     `json:"squad_size"`
	Starters      int                     `json:"starters"`
	MinByPosition map[player.Position]int `json:"min_by_position"`
	MaxByPosition map[player.Position]int `json:"max_by_position"`
	// GoalkeeperForGoalkeeper restricts goalkeeper swaps to goalkeepers only.
	GoalkeeperForGoalkeeper bool `json:"goalkeeper_for_goalkeeper"`
}

func DefaultFormationRules() FormationRules {
	return FormationRules{
		SquadSize: 15,
		Starters:  11,
		MinByPosition: map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   3,
			player.PositionMidfielder: 2,
			player.PositionForward:    1,
		},
		MaxByPosition: map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
		GoalkeeperForGoalkeeper: true,
	}
}

func (r FormationRules) Validate() error {
	if r.Starters <= 0 || r.SquadSize < r.Starters {
		return fmt.Errorf("%w: starters=%d squad=%d", ErrInvalidSquadSize, r.Starters, r.SquadSize)
	}
	minTotal := 0
	for pos, minRequired := range r.MinByPosition {
		if !pos.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, pos)
		}
		if maxAllowed, ok := r.MaxByPosition[pos]; ok && maxAllowed < minRequired {
			return fmt.Errorf("%w: pos=%s min=%d max=%d", ErrExceededFormation, pos, minRequired, maxAllowed)
		}
		minTotal += minRequired
	}
	if minTotal > r.Starters {
		return fmt.Errorf("%w: minimums need %d starters, have %d", ErrInsufficientFormation, minTotal, r.Starters)
	}
	return nil
}

// FormationFits reports whether the per-position counts satisfy the bounds.
func (r FormationRules) FormationFits(counts map[player.Position]int) bool {
	for pos, minRequired := range r.MinByPosition {
		if counts[pos] < minRequired {
			return false
		}
	}
	for pos, maxAllowed := range r.MaxByPosition {
		if counts[pos] > maxAllowed {
			return false
		}
	}
	return true
}

func (r FormationRules) IsStarter(pick SquadPick) bool {
	return pick.LineupPosition >= 1 && pick.LineupPosition <= r.Starters
}

// ValidatePicks checks a full gameweek squad against the formation rules.
func ValidatePicks(picks []SquadPick, positions map[int]player.Position, rules FormationRules) error {
	if len(picks) != rules.SquadSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidSquadSize, rules.SquadSize, len(picks))
	}

	playerSet := make(map[int]struct{}, len(picks))
	lineupSet := make(map[int]struct{}, len(picks))
	starterCounter := make(map[player.Position]int)
	captains, vices := 0, 0

	for _, pick := range picks {
		if pick.PlayerID <= 0 {
			return fmt.Errorf("player id is required")
		}
		if _, exists := playerSet[pick.PlayerID]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicatePlayerInSquad, pick.PlayerID)
		}
		playerSet[pick.PlayerID] = struct{}{}

		if pick.LineupPosition < 1 || pick.LineupPosition > rules.SquadSize {
			return fmt.Errorf("%w: player=%d position=%d", ErrInvalidLineupPosition, pick.PlayerID, pick.LineupPosition)
		}
		if _, exists := lineupSet[pick.LineupPosition]; exists {
			return fmt.Errorf("%w: duplicate slot %d", ErrInvalidLineupPosition, pick.LineupPosition)
		}
		lineupSet[pick.LineupPosition] = struct{}{}

		pos, ok := positions[pick.PlayerID]
		if !ok || !pos.Valid() {
			return fmt.Errorf("%w: player=%d", ErrUnknownPlayerPosition, pick.PlayerID)
		}
		if rules.IsStarter(pick) {
			starterCounter[pos]++
		}
		if pick.IsCaptain {
			captains++
		}
		if pick.IsViceCaptain {
			vices++
		}
		if pick.IsCaptain && pick.IsViceCaptain {
			return fmt.Errorf("%w: player %d is both captain and vice", ErrInvalidCaptaincy, pick.PlayerID)
		}
	}

	if captains != 1 || vices > 1 {
		return fmt.Errorf("%w: captains=%d vice_captains=%d", ErrInvalidCaptaincy, captains, vices)
	}

	for pos, minRequired := range rules.MinByPosition {
		if starterCounter[pos] < minRequired {
			return fmt.Errorf("%w: pos=%s min=%d current=%d", ErrInsufficientFormation, pos, minRequired, starterCounter[pos])
		}
	}
	for pos, maxAllowed := range rules.MaxByPosition {
		if starterCounter[pos] > maxAllowed {
			return fmt.Errorf("%w: pos=%s max=%d current=%d", ErrExceededFormation, pos, maxAllowed, starterCounter[pos])
		}
	}

	return nil
}

// TransferCost returns the points hit for a gameweek's transfers. Wildcard
// and free hit make every transfer free; the result is never negative.
func TransferCost(transfers, freeTransfers, hitCost int, chip Chip) int {
	if chip == ChipWildcard || chip == ChipFreeHit {
		return 0
	}
	extra := transfers - freeTransfers
	if extra <= 0 || hitCost <= 0 {
		return 0
	}
	return extra * hitCost
}
