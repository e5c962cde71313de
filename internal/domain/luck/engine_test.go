package luck

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
)

func intPtr(v int) *int { return &v }

func newMatch(event, entry1, points1, entry2, points2 int) h2h.Match {
	match := h2h.Match{
		LeagueID:     77,
		Event:        event,
		Entry1ID:     entry1,
		Entry2ID:     entry2,
		Entry1Points: points1,
		Entry2Points: points2,
	}
	switch {
	case points1 > points2:
		match.Winner = intPtr(entry1)
	case points2 > points1:
		match.Winner = intPtr(entry2)
	}
	return match
}

// roundRobinSeason builds a circle-method schedule for an even roster with
// seeded random scores and chips.
func roundRobinSeason(seed uint64, managers, events int) Input {
	rng := rand.New(rand.NewPCG(seed, seed*7+1))
	ids := make([]int, managers)
	for idx := range ids {
		ids[idx] = 1000 + idx
	}

	in := Input{Roster: append([]int(nil), ids...)}
	rest := append([]int(nil), ids[1:]...)
	for event := 1; event <= events; event++ {
		shift := (event - 1) % len(rest)
		round := append([]int{ids[0]}, append(append([]int(nil), rest[shift:]...), rest[:shift]...)...)
		for i := 0; i < managers/2; i++ {
			a, b := round[i], round[managers-1-i]
			in.Matches = append(in.Matches, newMatch(event, a, 20+rng.IntN(90), b, 20+rng.IntN(90)))
		}
		for _, id := range ids {
			if rng.IntN(10) == 0 {
				in.Chips = append(in.Chips, fantasy.ChipUsage{EntryID: id, Gameweek: event, Chip: fantasy.AllChips[rng.IntN(len(fantasy.AllChips))]})
			}
		}
	}
	return in
}

func findManager(t *testing.T, report Report, entryID int) ManagerLuck {
	t.Helper()
	for _, item := range report.Managers {
		if item.EntryID == entryID {
			return item
		}
	}
	t.Fatalf("manager %d not in report", entryID)
	return ManagerLuck{}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute_ZeroSumComponents(t *testing.T) {
	primary, err := LookupPreset(PresetPrimaryV1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine := NewEngine(DefaultConfig())

	for seed := uint64(1); seed <= 6; seed++ {
		in := roundRobinSeason(seed, 10, 19)
		report := engine.Compute(in, primary)

		v := report.Validation
		if math.Abs(v.VarianceSum) >= 0.1 || math.Abs(v.ScheduleSum) >= 0.1 || math.Abs(v.ChipSum) >= 0.1 {
			t.Fatalf("seed %d: zero-sum violated: %+v", seed, v)
		}
		if !v.Valid() {
			t.Fatalf("seed %d: expected valid validation, got %+v", seed, v)
		}
		if len(report.Managers) != 10 || len(report.Events) != 19 {
			t.Fatalf("seed %d: unexpected shape managers=%d events=%d", seed, len(report.Managers), len(report.Events))
		}
		for _, item := range report.Managers {
			if item.Matches != 19 || len(item.Gameweeks) != 19 {
				t.Fatalf("seed %d: manager %d has %d matches", seed, item.EntryID, item.Matches)
			}
		}
	}
}

func TestCompute_RankLuckRankedEighteenthWins(t *testing.T) {
	var in Input
	for id := 1; id <= 20; id++ {
		in.Roster = append(in.Roster, id)
	}
	score := func(id int) int { return 100 - 2*id }
	for id := 1; id <= 16; id += 2 {
		in.Matches = append(in.Matches, newMatch(1, id, score(id), id+1, score(id+1)))
	}
	in.Matches = append(in.Matches,
		newMatch(1, 17, score(17), 19, score(19)),
		newMatch(1, 18, score(18), 20, score(20)),
	)

	report := NewEngine(DefaultConfig()).Compute(in, Preset{Name: "rank-only", Weights: Weights{Rank: 1}})
	got := findManager(t, report, 18)

	wantExpected := 2.0 / 19.0
	if !approx(got.Gameweeks[0].ExpectedWin, wantExpected) {
		t.Fatalf("unexpected expected win: got=%v want=%v", got.Gameweeks[0].ExpectedWin, wantExpected)
	}
	if !approx(got.Rank, 1-wantExpected) || math.Abs(got.Rank-0.895) > 0.001 {
		t.Fatalf("unexpected rank luck: %v", got.Rank)
	}
	if !approx(got.Index, got.Rank) {
		t.Fatalf("rank-only preset index must equal rank luck, got %v", got.Index)
	}
}

func TestExpectedWin_Ties(t *testing.T) {
	if got := ExpectedWin(3, 2, 6); !approx(got, 0.8) {
		t.Fatalf("unexpected expected win with ties: %v", got)
	}
	if got := ExpectedWin(0, 0, 1); got != 0 {
		t.Fatalf("single manager must have zero expectation, got %v", got)
	}
}

func TestChipLuck_FavorableWhenNoneFaced(t *testing.T) {
	if got := ChipLuck(3.65, 0, 7); math.Abs(got-25.55) > 1e-9 {
		t.Fatalf("unexpected chip luck: %v", got)
	}
	if got := ChipLuck(2, 3, 7); got != -7 {
		t.Fatalf("unexpected chip luck for above-average exposure: %v", got)
	}
}

func TestCompute_ChipLuck(t *testing.T) {
	in := Input{
		Roster: []int{1, 2, 3, 4},
		Matches: []h2h.Match{
			newMatch(1, 1, 50, 2, 60),
			newMatch(1, 3, 40, 4, 45),
			newMatch(2, 1, 70, 3, 30),
			newMatch(2, 2, 55, 4, 65),
		},
		Chips: []fantasy.ChipUsage{
			{EntryID: 2, Gameweek: 1, Chip: fantasy.ChipBenchBoost},
			{EntryID: 3, Gameweek: 2, Chip: fantasy.ChipTripleCaptain},
			{EntryID: 4, Gameweek: 2, Chip: fantasy.ChipWildcard},
		},
	}

	report := NewEngine(DefaultConfig()).Compute(in, Preset{Name: "chip-only", Weights: Weights{Chip: 1}})
	// entry 1 faced both offensive chips, league average is 0.5
	if got := findManager(t, report, 1); got.ChipsFaced != 2 || !approx(got.Chip, (0.5-2)*7) {
		t.Fatalf("unexpected entry 1 chip luck: faced=%d luck=%v", got.ChipsFaced, got.Chip)
	}
	if got := findManager(t, report, 2); got.ChipsFaced != 0 || !approx(got.Chip, 3.5) {
		t.Fatalf("wildcard must not count as offensive: faced=%d luck=%v", got.ChipsFaced, got.Chip)
	}
	if !approx(report.Validation.ChipSum, 0) {
		t.Fatalf("chip luck must be zero-sum, got %v", report.Validation.ChipSum)
	}
	if got := findManager(t, report, 1); got.Gameweeks[1].OpponentChip != fantasy.ChipTripleCaptain {
		t.Fatalf("expected gameweek detail to carry the opponent chip, got %q", got.Gameweeks[1].OpponentChip)
	}
}

func TestCompute_VarianceProgressiveAndClamped(t *testing.T) {
	in := Input{
		Roster: []int{1, 2},
		Matches: []h2h.Match{
			newMatch(1, 1, 100, 2, 20),
			newMatch(2, 1, 20, 2, 100),
		},
	}

	report := NewEngine(DefaultConfig()).Compute(in, Preset{Name: "variance-only", Weights: Weights{Variance: 1}})
	first := findManager(t, report, 1)
	// gameweek 1 compares everyone with themselves, gameweek 2 is -80 clamped to -50
	if !approx(first.Gameweeks[0].Variance, 0) || !approx(first.Gameweeks[1].Variance, -50) {
		t.Fatalf("unexpected variance rows: %+v", first.Gameweeks)
	}
	if !approx(first.Variance, -50) || !approx(findManager(t, report, 2).Variance, 50) {
		t.Fatalf("unexpected season variance: %v", first.Variance)
	}
	if !approx(first.Index, -5) {
		t.Fatalf("variance is normalized by ten, got index %v", first.Index)
	}

	truncated := NewEngine(DefaultConfig()).Compute(Input{Roster: in.Roster, Matches: in.Matches[:1]}, Preset{Name: "variance-only", Weights: Weights{Variance: 1}})
	if !approx(findManager(t, truncated, 1).Gameweeks[0].Variance, first.Gameweeks[0].Variance) {
		t.Fatalf("later gameweeks must not change earlier variance")
	}
}

func TestCompute_ScheduleLuck(t *testing.T) {
	in := Input{
		Roster: []int{1, 2, 3, 4},
		Matches: []h2h.Match{
			newMatch(1, 1, 80, 2, 40),
			newMatch(1, 3, 60, 4, 20),
		},
	}

	report := NewEngine(DefaultConfig()).Compute(in, Preset{Name: "schedule-only", Weights: Weights{Schedule: 1}})
	want := map[int]float64{1: 0, 2: 160.0/3 - 80, 3: 140.0/3 - 20, 4: 0}
	for entryID, value := range want {
		if got := findManager(t, report, entryID).Schedule; math.Abs(got-value) > 1e-9 {
			t.Fatalf("entry %d: unexpected schedule luck got=%v want=%v", entryID, got, value)
		}
	}
	if math.Abs(report.Validation.ScheduleSum) > 1e-9 {
		t.Fatalf("schedule luck must be zero-sum, got %v", report.Validation.ScheduleSum)
	}
}

func TestCompute_InconsistentManagerDegraded(t *testing.T) {
	in := Input{
		Roster: []int{1, 2, 3, 4},
		Matches: []h2h.Match{
			newMatch(1, 1, 50, 2, 60),
			newMatch(1, 3, 40, 4, 45),
			newMatch(1, 1, 55, 3, 41),
		},
	}

	report := NewEngine(DefaultConfig()).Compute(in, Preset{Name: "all", Weights: Weights{Variance: 0.25, Rank: 0.25, Schedule: 0.25, Chip: 0.25}})
	broken := findManager(t, report, 1)
	if !broken.Degraded || broken.Reason == "" {
		t.Fatalf("expected manager 1 degraded, got %+v", broken)
	}
	if broken.Variance != 0 || broken.Rank != 0 || broken.Schedule != 0 || broken.Chip != 0 || broken.Index != 0 {
		t.Fatalf("degraded manager must carry neutral luck: %+v", broken)
	}
	if other := findManager(t, report, 4); other.Degraded || other.Matches != 1 {
		t.Fatalf("other managers must still be computed: %+v", other)
	}
	if !report.Validation.Valid() {
		t.Fatalf("degraded managers must not unbalance zero-sum components: %+v", report.Validation)
	}
}

func TestCompute_DegradedManagerLeavesPool(t *testing.T) {
	in := Input{
		Roster: []int{1, 2, 3, 4},
		Matches: []h2h.Match{
			newMatch(1, 1, 50, 2, 60),
			newMatch(1, 3, 40, 4, 45),
			newMatch(1, 1, 55, h2h.AverageEntryID, 41),
			newMatch(2, 1, 70, 3, 50),
			newMatch(2, 2, 40, 4, 65),
		},
		Chips: []fantasy.ChipUsage{
			{EntryID: 1, Gameweek: 2, Chip: fantasy.ChipTripleCaptain},
			{EntryID: 4, Gameweek: 2, Chip: fantasy.ChipBenchBoost},
		},
	}

	report := NewEngine(DefaultConfig()).Compute(in, Preset{Name: "all", Weights: Weights{Variance: 0.25, Rank: 0.25, Schedule: 0.25, Chip: 0.25}})
	if broken := findManager(t, report, 1); !broken.Degraded {
		t.Fatalf("expected manager 1 degraded, got %+v", broken)
	}
	for _, entryID := range []int{2, 3, 4} {
		if got := findManager(t, report, entryID); got.Degraded {
			t.Fatalf("manager %d must not be degraded: %+v", entryID, got)
		}
	}
	if !report.Validation.Valid() {
		t.Fatalf("zero-sum components must balance without the degraded manager: %+v", report.Validation)
	}
	if got := findManager(t, report, 3); got.ChipsFaced != 0 || math.Abs(got.Schedule) > 1e-9 {
		t.Fatalf("chip and match against a degraded manager must not count: %+v", got)
	}
	if got := findManager(t, report, 2); got.ChipsFaced != 1 {
		t.Fatalf("expected manager 2 to face one chip, got %d", got.ChipsFaced)
	}
}

func TestCompute_AverageOpponentSkippedForZeroSum(t *testing.T) {
	in := Input{
		Roster: []int{1, 2, 3},
		Matches: []h2h.Match{
			newMatch(1, 1, 50, 2, 60),
			newMatch(1, 3, 70, h2h.AverageEntryID, 55),
			newMatch(2, 2, 30, 3, 65),
			newMatch(2, 1, 44, h2h.AverageEntryID, 52),
		},
		Chips: []fantasy.ChipUsage{{EntryID: 2, Gameweek: 2, Chip: fantasy.ChipBenchBoost}},
	}

	report := NewEngine(DefaultConfig()).Compute(in, Preset{Name: "variance-only", Weights: Weights{Variance: 1}})
	if math.Abs(report.Validation.VarianceSum) > 1e-9 || math.Abs(report.Validation.ChipSum) > 1e-9 {
		t.Fatalf("variance and chip luck must stay zero-sum with an average opponent: %+v", report.Validation)
	}
	if math.Abs(report.Validation.ScheduleSum) > 1e-9 {
		t.Fatalf("schedule luck must stay zero-sum with an average opponent, got %v", report.Validation.ScheduleSum)
	}
	if len(report.Managers) != 3 {
		t.Fatalf("average opponent must not appear as a manager")
	}
	if got := findManager(t, report, 3); got.Matches != 2 {
		t.Fatalf("rank luck still counts matches against the average, got %d", got.Matches)
	}
}

func TestLookupPreset(t *testing.T) {
	for _, name := range PresetNames() {
		preset, err := LookupPreset(name)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", name, err)
		}
		if err := preset.Validate(); err != nil {
			t.Fatalf("preset %s invalid: %v", name, err)
		}
	}

	debug, _ := LookupPreset(PresetDebugV1)
	if debug.Weights.Schedule != 0 || debug.Weights.Rank != 0.6 {
		t.Fatalf("unexpected debug weights: %+v", debug.Weights)
	}
	if _, err := LookupPreset("primary"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	if err := (Preset{Name: "bad", Weights: Weights{Variance: 0.5}}).Validate(); err == nil {
		t.Fatalf("expected weights that do not sum to one to fail")
	}
}

func TestCompute_IndexUsesPresetWeights(t *testing.T) {
	in := roundRobinSeason(42, 6, 5)
	engine := NewEngine(DefaultConfig())
	primary, _ := LookupPreset(PresetPrimaryV1)
	debug, _ := LookupPreset(PresetDebugV1)

	primaryReport := engine.Compute(in, primary)
	debugReport := engine.Compute(in, debug)
	for idx, item := range primaryReport.Managers {
		wantPrimary := 0.4*item.Variance/10 + 0.3*item.Rank + 0.2*item.Schedule/5 + 0.1*item.Chip/3
		if math.Abs(item.Index-wantPrimary) > 1e-9 {
			t.Fatalf("primary index mismatch for %d: got=%v want=%v", item.EntryID, item.Index, wantPrimary)
		}
		other := debugReport.Managers[idx]
		wantDebug := 0.2*other.Variance/10 + 0.6*other.Rank + 0.2*other.Chip/3
		if math.Abs(other.Index-wantDebug) > 1e-9 {
			t.Fatalf("debug index mismatch for %d: got=%v want=%v", other.EntryID, other.Index, wantDebug)
		}
	}
}
