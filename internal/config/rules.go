package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/scoring"
)

// Rules bundles every policy table the engine reads at startup.
type Rules struct {
	Scoring   scoring.Rules          `json:"scoring"`
	Formation fantasy.FormationRules `json:"formation"`
	Chips     fantasy.ChipRules      `json:"chips"`
}

// rulesFile decodes formation and chips in place over the defaults; the
// scoring section is a partial override so explicit zeros survive.
type rulesFile struct {
	Scoring   scoring.RulesOverride   `json:"scoring"`
	Formation *fantasy.FormationRules `json:"formation"`
	Chips     *fantasy.ChipRules      `json:"chips"`
}

func DefaultRules() Rules {
	return Rules{
		Scoring:   scoring.DefaultRules(),
		Formation: fantasy.DefaultFormationRules(),
		Chips:     fantasy.DefaultChipRules(),
	}
}

// LoadRules decodes path over the defaults, so a file only needs the keys it
// changes. An empty path returns the defaults with the chip renewal override.
func LoadRules(path string, renewalGameweek int) (Rules, error) {
	rules := DefaultRules()
	if renewalGameweek > 0 {
		rules.Chips.RenewalGameweek = renewalGameweek
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Rules{}, fmt.Errorf("read rules file %s: %w", path, err)
		}
		file := rulesFile{Formation: &rules.Formation, Chips: &rules.Chips}
		if err := sonic.Unmarshal(raw, &file); err != nil {
			return Rules{}, fmt.Errorf("decode rules file %s: %w", path, err)
		}
		rules.Scoring = rules.Scoring.Merge(file.Scoring)
	}

	if err := rules.Scoring.Validate(); err != nil {
		return Rules{}, err
	}
	if err := rules.Formation.Validate(); err != nil {
		return Rules{}, err
	}
	if rules.Chips.UsesPerHalf < 1 {
		return Rules{}, fmt.Errorf("chips.uses_per_half must be >= 1")
	}
	return rules, nil
}
