package fantasy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
)

const DefaultChipRenewalGameweek = 20

var (
	ErrUnknownChip           = errors.New("unknown chip")
	ErrChipAlreadyInGameweek = errors.New("chip already played in gameweek")
	ErrChipLimitExceeded     = errors.New("chip usage limit exceeded")
)

// ChipRules bounds chip usage: each chip may be played UsesPerHalf times in
// each half of the season, the second half starting at RenewalGameweek.
type ChipRules struct {
	RenewalGameweek int `json:"renewal_gameweek"`
	UsesPerHalf     int `json:"uses_per_half"`
}

func DefaultChipRules() ChipRules {
	return ChipRules{RenewalGameweek: DefaultChipRenewalGameweek, UsesPerHalf: 1}
}

// Half returns 0 for the first half of the season and 1 for the second.
func (r ChipRules) Half(gw int) int {
	if gw >= r.RenewalGameweek {
		return 1
	}
	return 0
}

type chipHalfKey struct {
	entryID int
	chip    Chip
	half    int
}

type entryGameweekKey struct {
	entryID  int
	gameweek int
}

// ValidateChipUsages checks that no entry played two chips in one gameweek
// and that no chip exceeds its per-half allowance.
func ValidateChipUsages(usages []ChipUsage, rules ChipRules) error {
	perGameweek := make(map[entryGameweekKey]Chip, len(usages))
	perHalf := make(map[chipHalfKey]int, len(usages))

	for _, usage := range usages {
		if err := usage.Validate(); err != nil {
			return err
		}

		key := entryGameweekKey{entryID: usage.EntryID, gameweek: usage.Gameweek}
		if existing, ok := perGameweek[key]; ok {
			return fmt.Errorf("%w: entry=%d gameweek=%d chips=%s,%s", ErrChipAlreadyInGameweek, usage.EntryID, usage.Gameweek, existing, usage.Chip)
		}
		perGameweek[key] = usage.Chip

		halfKey := chipHalfKey{entryID: usage.EntryID, chip: usage.Chip, half: rules.Half(usage.Gameweek)}
		perHalf[halfKey]++
		if perHalf[halfKey] > rules.UsesPerHalf {
			return fmt.Errorf("%w: entry=%d chip=%s half=%d", ErrChipLimitExceeded, usage.EntryID, usage.Chip, halfKey.half+1)
		}
	}
	return nil
}

// ChipStatus describes one chip for an entry as of a gameweek.
type ChipStatus struct {
	Chip      Chip  `json:"chip"`
	Available bool  `json:"available"`
	UsedIn    []int `json:"used_in"`
}

// ChipAvailability reports, for one entry's usage history, which chips are
// still playable in the given gameweek. Usages from later gameweeks are
// ignored.
func ChipAvailability(usages []ChipUsage, gw int, rules ChipRules) ([]ChipStatus, error) {
	if err := gameweek.ValidateGameweek(gw); err != nil {
		return nil, err
	}

	half := rules.Half(gw)
	out := make([]ChipStatus, 0, len(AllChips))
	for _, chip := range AllChips {
		status := ChipStatus{Chip: chip, UsedIn: []int{}}
		usedThisHalf := 0
		for _, usage := range usages {
			if usage.Chip != chip || usage.Gameweek > gw {
				continue
			}
			status.UsedIn = append(status.UsedIn, usage.Gameweek)
			if rules.Half(usage.Gameweek) == half {
				usedThisHalf++
			}
		}
		sort.Ints(status.UsedIn)
		status.Available = usedThisHalf < rules.UsesPerHalf
		out = append(out, status)
	}
	return out, nil
}

// AllChipsAvailable is the fallback when an entry's history cannot be read.
func AllChipsAvailable() []ChipStatus {
	out := make([]ChipStatus, 0, len(AllChips))
	for _, chip := range AllChips {
		out = append(out, ChipStatus{Chip: chip, Available: true, UsedIn: []int{}})
	}
	return out
}
