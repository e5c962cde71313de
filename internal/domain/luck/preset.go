package luck

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrUnknownPreset = errors.New("unknown luck preset")

const (
	PresetPrimaryV1 = "primary-v1"
	PresetDebugV1   = "debug-v1"
)

// Weights is the share of each normalized component in the season index.
type Weights struct {
	Variance float64 `json:"variance"`
	Rank     float64 `json:"rank"`
	Schedule float64 `json:"schedule"`
	Chip     float64 `json:"chip"`
}

func (w Weights) Sum() float64 {
	return w.Variance + w.Rank + w.Schedule + w.Chip
}

// Preset is a named, versioned weighting scheme for the season index.
type Preset struct {
	Name    string  `json:"name"`
	Weights Weights `json:"weights"`
}

func (p Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	for _, w := range []float64{p.Weights.Variance, p.Weights.Rank, p.Weights.Schedule, p.Weights.Chip} {
		if w < 0 {
			return fmt.Errorf("preset %s: weights must not be negative", p.Name)
		}
	}
	if math.Abs(p.Weights.Sum()-1) > 1e-9 {
		return fmt.Errorf("preset %s: weights must sum to 1, got %.4f", p.Name, p.Weights.Sum())
	}
	return nil
}

var presets = map[string]Preset{
	PresetPrimaryV1: {
		Name:    PresetPrimaryV1,
		Weights: Weights{Variance: 0.4, Rank: 0.3, Schedule: 0.2, Chip: 0.1},
	},
	// debug-v1 leaves schedule luck out of the index.
	PresetDebugV1: {
		Name:    PresetDebugV1,
		Weights: Weights{Variance: 0.2, Rank: 0.6, Chip: 0.2},
	},
}

func LookupPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return preset, nil
}

// PresetNames lists the registered presets in name order.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
