package luck

import (
	"fmt"
	"math"
	"sort"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
)

const (
	DefaultVarianceClamp = 50.0
	DefaultChipPoints    = 7.0
	DefaultTolerance     = 0.1
)

// Normalization divides each raw component before weighting.
type Normalization struct {
	Variance float64
	Rank     float64
	Schedule float64
	Chip     float64
}

func DefaultNormalization() Normalization {
	return Normalization{Variance: 10, Rank: 1, Schedule: 5, Chip: 3}
}

type Config struct {
	VarianceClamp float64
	ChipPoints    float64
	Tolerance     float64
	Normalization Normalization
}

func DefaultConfig() Config {
	return Config{
		VarianceClamp: DefaultVarianceClamp,
		ChipPoints:    DefaultChipPoints,
		Tolerance:     DefaultTolerance,
		Normalization: DefaultNormalization(),
	}
}

// Input is a closed window of completed gameweeks for one league.
type Input struct {
	Roster  []int
	Matches []h2h.Match
	Chips   []fantasy.ChipUsage
}

// GameweekLuck is one manager's per-gameweek detail row.
type GameweekLuck struct {
	Event           int          `json:"event"`
	Points          int          `json:"points"`
	OpponentID      int          `json:"opponent_id"`
	OpponentPoints  int          `json:"opponent_points"`
	Result          h2h.Result   `json:"result"`
	SeasonAverage   float64      `json:"season_average"`
	OpponentAverage float64      `json:"opponent_average"`
	Variance        float64      `json:"variance"`
	ExpectedWin     float64      `json:"expected_win"`
	Rank            float64      `json:"rank"`
	OpponentChip    fantasy.Chip `json:"opponent_chip,omitempty"`
}

type ManagerLuck struct {
	EntryID    int            `json:"entry_id"`
	Variance   float64        `json:"variance_luck"`
	Rank       float64        `json:"rank_luck"`
	Schedule   float64        `json:"schedule_luck"`
	Chip       float64        `json:"chip_luck"`
	Index      float64        `json:"season_luck_index"`
	Matches    int            `json:"matches"`
	ChipsFaced int            `json:"chips_faced"`
	Degraded   bool           `json:"degraded"`
	Reason     string         `json:"reason,omitempty"`
	Gameweeks  []GameweekLuck `json:"gameweeks,omitempty"`
}

// Validation holds league-wide component sums. Variance, schedule and chip
// luck are zero-sum; rank luck is not and carries no flag.
type Validation struct {
	VarianceSum     float64 `json:"variance_sum"`
	RankSum         float64 `json:"rank_sum"`
	ScheduleSum     float64 `json:"schedule_sum"`
	ChipSum         float64 `json:"chip_sum"`
	Tolerance       float64 `json:"tolerance"`
	VarianceZeroSum bool    `json:"variance_zero_sum"`
	ScheduleZeroSum bool    `json:"schedule_zero_sum"`
	ChipZeroSum     bool    `json:"chip_zero_sum"`
}

func (v Validation) Valid() bool {
	return v.VarianceZeroSum && v.ScheduleZeroSum && v.ChipZeroSum
}

type Report struct {
	Preset     Preset        `json:"preset"`
	Events     []int         `json:"events"`
	Managers   []ManagerLuck `json:"managers"`
	Validation Validation    `json:"validation"`
}

// Engine computes the four luck components and the season index.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.VarianceClamp <= 0 {
		cfg.VarianceClamp = def.VarianceClamp
	}
	if cfg.ChipPoints <= 0 {
		cfg.ChipPoints = def.ChipPoints
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.Normalization == (Normalization{}) {
		cfg.Normalization = def.Normalization
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// window indexes one manager's matches by event.
type window struct {
	byEvent  map[int]h2h.Match
	reason   string
	averages map[int]float64
}

// Compute runs every component over the window. A manager whose rows are
// inconsistent gets neutral zero luck and is flagged degraded; everyone else
// is computed without them.
func (e *Engine) Compute(in Input, preset Preset) Report {
	roster := make(map[int]struct{}, len(in.Roster))
	for _, entryID := range in.Roster {
		if entryID > h2h.AverageEntryID {
			roster[entryID] = struct{}{}
		}
	}

	windows := make(map[int]*window, len(roster))
	for entryID := range roster {
		windows[entryID] = &window{byEvent: make(map[int]h2h.Match), averages: make(map[int]float64)}
	}

	eventSet := make(map[int]struct{})
	for _, match := range in.Matches {
		eventSet[match.Event] = struct{}{}
		for _, entryID := range []int{match.Entry1ID, match.Entry2ID} {
			w, ok := windows[entryID]
			if !ok {
				continue
			}
			if _, dup := w.byEvent[match.Event]; dup {
				if w.reason == "" {
					w.reason = fmt.Sprintf("multiple matches in event %d", match.Event)
				}
				continue
			}
			w.byEvent[match.Event] = match
		}
	}
	events := sortedKeys(eventSet)

	for entryID, w := range windows {
		sum, count := 0, 0
		for _, event := range events {
			match, ok := w.byEvent[event]
			if !ok {
				continue
			}
			points, _, _, _ := match.Sides(entryID)
			sum += points
			count++
			w.averages[event] = float64(sum) / float64(count)
		}
	}

	chipsByEntryEvent := make(map[[2]int]fantasy.Chip, len(in.Chips))
	for _, usage := range in.Chips {
		chipsByEntryEvent[[2]int{usage.EntryID, usage.Gameweek}] = usage.Chip
	}

	results := make(map[int]*ManagerLuck, len(windows))
	active := make(map[int]*window, len(windows))
	for entryID, w := range windows {
		if w.reason != "" {
			results[entryID] = &ManagerLuck{EntryID: entryID, Degraded: true, Reason: w.reason}
			continue
		}
		results[entryID] = &ManagerLuck{EntryID: entryID}
		active[entryID] = w
	}

	// Degraded managers are out of the pool, so their opponents are treated
	// like non-roster opponents and every zero-sum component stays balanced.
	e.rankLuck(events, active, results)
	e.varianceLuck(in.Matches, active, results)
	e.scheduleLuck(events, active, results)
	e.chipLuck(events, active, chipsByEntryEvent, results)

	report := Report{
		Preset:   preset,
		Events:   events,
		Managers: make([]ManagerLuck, 0, len(results)),
	}
	for _, item := range results {
		item.Index = e.index(*item, preset)
		report.Managers = append(report.Managers, *item)
	}
	sort.Slice(report.Managers, func(i, j int) bool {
		return report.Managers[i].EntryID < report.Managers[j].EntryID
	})

	report.Validation = e.validate(report.Managers)
	return report
}

// varianceLuck credits each side of a match with the clamped difference of
// their deviations from their own progressive averages. Matches against
// non-roster opponents are skipped so the component stays zero-sum.
func (e *Engine) varianceLuck(matches []h2h.Match, windows map[int]*window, results map[int]*ManagerLuck) {
	processed := make(map[[3]int]struct{}, len(matches))
	for _, match := range matches {
		key := [3]int{match.Event, match.Entry1ID, match.Entry2ID}
		if _, done := processed[key]; done {
			continue
		}
		w1, ok1 := windows[match.Entry1ID]
		w2, ok2 := windows[match.Entry2ID]
		if !ok1 || !ok2 {
			continue
		}
		if !sameMatch(w1.byEvent[match.Event], match) || !sameMatch(w2.byEvent[match.Event], match) {
			continue
		}

		processed[key] = struct{}{}

		avg1 := w1.averages[match.Event]
		avg2 := w2.averages[match.Event]
		diff := (float64(match.Entry1Points) - avg1) - (float64(match.Entry2Points) - avg2)
		diff = clamp(diff, e.cfg.VarianceClamp)

		results[match.Entry1ID].Variance += diff
		results[match.Entry2ID].Variance -= diff
		setGameweek(results[match.Entry1ID], match.Event, func(row *GameweekLuck) { row.Variance = diff })
		setGameweek(results[match.Entry2ID], match.Event, func(row *GameweekLuck) { row.Variance = -diff })
	}
}

// rankLuck compares each result with the share of the league the manager
// outscored that gameweek. Ties count half.
func (e *Engine) rankLuck(events []int, windows map[int]*window, results map[int]*ManagerLuck) {
	for _, event := range events {
		scores := make(map[int]int, len(windows))
		for entryID, w := range windows {
			match, ok := w.byEvent[event]
			if !ok {
				continue
			}
			points, _, _, _ := match.Sides(entryID)
			scores[entryID] = points
		}
		if len(scores) < 2 {
			continue
		}

		for entryID, points := range scores {
			beats, ties := 0, 0
			for otherID, otherPoints := range scores {
				if otherID == entryID {
					continue
				}
				switch {
				case points > otherPoints:
					beats++
				case points == otherPoints:
					ties++
				}
			}
			expected := ExpectedWin(beats, ties, len(scores))

			match := windows[entryID].byEvent[event]
			result, err := match.ResultFor(entryID)
			if err != nil {
				continue
			}
			_, opponentID, opponentPoints, _ := match.Sides(entryID)
			rank := result.Score() - expected

			item := results[entryID]
			item.Rank += rank
			item.Matches++
			item.Gameweeks = append(item.Gameweeks, GameweekLuck{
				Event:          event,
				Points:         points,
				OpponentID:     opponentID,
				OpponentPoints: opponentPoints,
				Result:         result,
				SeasonAverage:  windows[entryID].averages[event],
				ExpectedWin:    expected,
				Rank:           rank,
			})
		}
	}

	for _, item := range results {
		sort.Slice(item.Gameweeks, func(i, j int) bool {
			return item.Gameweeks[i].Event < item.Gameweeks[j].Event
		})
	}
}

// scheduleLuck measures how much weaker than the league mean a manager's
// opponents were, using everyone's progressive average at match time. Only
// managers whose opponent is also in the pool count towards the mean, which
// keeps the component zero-sum when someone faced the average entry.
func (e *Engine) scheduleLuck(events []int, windows map[int]*window, results map[int]*ManagerLuck) {
	for _, event := range events {
		opponentAvgs := make(map[int]float64, len(windows))
		total := 0.0
		for entryID, w := range windows {
			match, ok := w.byEvent[event]
			if !ok {
				continue
			}
			_, opponentID, _, _ := match.Sides(entryID)
			opponent, ok := windows[opponentID]
			if !ok || !sameMatch(opponent.byEvent[event], match) {
				continue
			}
			opponentAvg, ok := opponent.averages[event]
			if !ok {
				continue
			}
			opponentAvgs[entryID] = opponentAvg
			total += w.averages[event]
		}
		count := len(opponentAvgs)
		if count < 2 {
			continue
		}

		for entryID, opponentAvg := range opponentAvgs {
			theoretical := (total - windows[entryID].averages[event]) / float64(count-1)
			results[entryID].Schedule += theoretical - opponentAvg
			setGameweek(results[entryID], event, func(row *GameweekLuck) {
				row.OpponentAverage = opponentAvg
			})
		}
	}
}

// chipLuck counts offensive chips each manager faced and credits the
// difference from the league average.
func (e *Engine) chipLuck(events []int, windows map[int]*window, chips map[[2]int]fantasy.Chip, results map[int]*ManagerLuck) {
	if len(windows) == 0 {
		return
	}

	faced := make(map[int]int, len(windows))
	for entryID, w := range windows {
		for _, event := range events {
			match, ok := w.byEvent[event]
			if !ok {
				continue
			}
			_, opponentID, _, _ := match.Sides(entryID)
			if _, inRoster := windows[opponentID]; !inRoster {
				continue
			}
			chip := chips[[2]int{opponentID, event}]
			if !chip.Offensive() {
				continue
			}
			faced[entryID]++
			setGameweek(results[entryID], event, func(row *GameweekLuck) {
				row.OpponentChip = chip
			})
		}
	}

	total := 0
	for _, count := range faced {
		total += count
	}
	leagueAvg := float64(total) / float64(len(windows))
	for entryID := range windows {
		item := results[entryID]
		item.ChipsFaced = faced[entryID]
		item.Chip = ChipLuck(leagueAvg, faced[entryID], e.cfg.ChipPoints)
	}
}

func (e *Engine) index(item ManagerLuck, preset Preset) float64 {
	norm := e.cfg.Normalization
	return preset.Weights.Variance*safeDiv(item.Variance, norm.Variance) +
		preset.Weights.Rank*safeDiv(item.Rank, norm.Rank) +
		preset.Weights.Schedule*safeDiv(item.Schedule, norm.Schedule) +
		preset.Weights.Chip*safeDiv(item.Chip, norm.Chip)
}

func (e *Engine) validate(managers []ManagerLuck) Validation {
	out := Validation{Tolerance: e.cfg.Tolerance}
	for _, item := range managers {
		out.VarianceSum += item.Variance
		out.RankSum += item.Rank
		out.ScheduleSum += item.Schedule
		out.ChipSum += item.Chip
	}
	out.VarianceZeroSum = math.Abs(out.VarianceSum) < e.cfg.Tolerance
	out.ScheduleZeroSum = math.Abs(out.ScheduleSum) < e.cfg.Tolerance
	out.ChipZeroSum = math.Abs(out.ChipSum) < e.cfg.Tolerance
	return out
}

// ExpectedWin is the share of the other n-1 managers a score beats, with
// ties counted half.
func ExpectedWin(beats, ties, n int) float64 {
	if n < 2 {
		return 0
	}
	return (float64(beats) + 0.5*float64(ties)) / float64(n-1)
}

// ChipLuck is positive when a manager faced fewer offensive chips than the
// league average.
func ChipLuck(leagueAvgFaced float64, faced int, pointsPerChip float64) float64 {
	return (leagueAvgFaced - float64(faced)) * pointsPerChip
}

func setGameweek(item *ManagerLuck, event int, apply func(*GameweekLuck)) {
	for idx := range item.Gameweeks {
		if item.Gameweeks[idx].Event == event {
			apply(&item.Gameweeks[idx])
			return
		}
	}
}

func sameMatch(a, b h2h.Match) bool {
	return a.LeagueID == b.LeagueID && a.Event == b.Event && a.Entry1ID == b.Entry1ID && a.Entry2ID == b.Entry2ID
}

func clamp(v, bound float64) float64 {
	return math.Max(-bound, math.Min(bound, v))
}

func safeDiv(v, by float64) float64 {
	if by == 0 {
		return 0
	}
	return v / by
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Ints(out)
	return out
}
