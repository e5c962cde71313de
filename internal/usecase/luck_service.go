package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/luck"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type LeagueLuck struct {
	LeagueID int         `json:"league_id"`
	Through  int         `json:"through"`
	Outcome  Outcome     `json:"outcome"`
	Reason   string      `json:"reason,omitempty"`
	Report   luck.Report `json:"report"`
}

type LuckService struct {
	gameweeks      *GameweekService
	feed           LiveFeed
	store          Store
	engine         *luck.Engine
	chipRules      fantasy.ChipRules
	defaultPreset  string
	maxConcurrency int
	logger         *logging.Logger
}

func NewLuckService(
	gameweeks *GameweekService,
	feed LiveFeed,
	store Store,
	engine *luck.Engine,
	chipRules fantasy.ChipRules,
	defaultPreset string,
	maxConcurrency int,
	logger *logging.Logger,
) *LuckService {
	if logger == nil {
		logger = logging.Default()
	}
	if engine == nil {
		engine = luck.NewEngine(luck.DefaultConfig())
	}
	if defaultPreset == "" {
		defaultPreset = luck.PresetPrimaryV1
	}
	if maxConcurrency < 1 {
		maxConcurrency = defaultScoringMaxConcurrency
	}
	return &LuckService{
		gameweeks:      gameweeks,
		feed:           feed,
		store:          store,
		engine:         engine,
		chipRules:      chipRules,
		defaultPreset:  defaultPreset,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// SeasonLuck computes the luck report for an H2H league over every trusted
// completed gameweek up to through (0 means the whole season).
func (s *LuckService) SeasonLuck(ctx context.Context, leagueID int, presetName string, through int) (LeagueLuck, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LuckService.SeasonLuck",
		attribute.Int("league_id", leagueID),
		attribute.String("preset", presetName),
	)
	defer span.End()

	if leagueID <= 0 {
		return LeagueLuck{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if presetName == "" {
		presetName = s.defaultPreset
	}
	preset, err := luck.LookupPreset(presetName)
	if err != nil {
		return LeagueLuck{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if through == 0 {
		through = gameweek.LastGameweek
	}
	if err := validateGameweekInput(through); err != nil {
		return LeagueLuck{}, err
	}

	out := LeagueLuck{LeagueID: leagueID, Through: through, Outcome: OutcomeOK}
	degrade := func(reason string) {
		out.Outcome = worse(out.Outcome, OutcomeDegraded)
		out.Reason = joinReasons(out.Reason, reason)
	}

	roster := leagueEntries(ctx, s.feed, s.store.H2H, s.logger, leagueID)
	if roster.Outcome == OutcomeFailed {
		return LeagueLuck{}, fmt.Errorf("%w: league %d roster: %s", ErrDependencyUnavailable, leagueID, roster.Reason)
	}
	if roster.Outcome == OutcomeDegraded {
		degrade(roster.Reason)
	}
	entryIDs := make([]int, 0, len(roster.Value))
	for _, entry := range roster.Value {
		if entry.ID > h2h.AverageEntryID {
			entryIDs = append(entryIDs, entry.ID)
		}
	}

	matches, err := s.matches(ctx, leagueID)
	if err != nil {
		return LeagueLuck{}, err
	}
	if matches.Outcome == OutcomeDegraded {
		degrade(matches.Reason)
	}

	window := s.window(ctx, matches.Value, through)
	if window.Outcome == OutcomeDegraded {
		degrade(window.Reason)
	}
	inWindow := make(map[int]struct{}, len(window.Value))
	for _, event := range window.Value {
		inWindow[event] = struct{}{}
	}

	scoped := make([]h2h.Match, 0, len(matches.Value))
	for _, match := range matches.Value {
		if _, ok := inWindow[match.Event]; ok {
			scoped = append(scoped, match)
		}
	}
	if err := h2h.ValidateMatches(scoped); err != nil {
		s.logger.WarnContext(ctx, "h2h matches are inconsistent", "league_id", leagueID, "error", err)
	}

	chips := s.chipUsages(ctx, entryIDs)
	if chips.Outcome != OutcomeOK {
		degrade(chips.Reason)
	}
	scopedChips := make([]fantasy.ChipUsage, 0, len(chips.Value))
	for _, usage := range chips.Value {
		if _, ok := inWindow[usage.Gameweek]; ok {
			scopedChips = append(scopedChips, usage)
		}
	}
	if err := fantasy.ValidateChipUsages(scopedChips, s.chipRules); err != nil {
		s.logger.WarnContext(ctx, "chip usages are inconsistent", "league_id", leagueID, "error", err)
	}

	out.Report = s.engine.Compute(luck.Input{
		Roster:  entryIDs,
		Matches: scoped,
		Chips:   scopedChips,
	}, preset)

	if !out.Report.Validation.Valid() {
		s.logger.WarnContext(ctx, "luck zero-sum check failed",
			"league_id", leagueID,
			"variance_sum", out.Report.Validation.VarianceSum,
			"schedule_sum", out.Report.Validation.ScheduleSum,
			"chip_sum", out.Report.Validation.ChipSum,
		)
	}
	degradedManagers := 0
	for _, item := range out.Report.Managers {
		if item.Degraded {
			degradedManagers++
			s.logger.WarnContext(ctx, "manager luck replaced with neutral default",
				"league_id", leagueID,
				"entry_id", item.EntryID,
				"reason", item.Reason,
			)
		}
	}
	if degradedManagers > 0 {
		degrade(fmt.Sprintf("%d managers with inconsistent match rows", degradedManagers))
	}

	markSpanOutcome(span, out.Outcome, out.Reason)
	return out, nil
}

// matches prefers persisted results since luck only covers history.
func (s *LuckService) matches(ctx context.Context, leagueID int) (Result[[]h2h.Match], error) {
	stored, storeErr := s.store.H2H.ListMatches(ctx, leagueID)
	if storeErr == nil && len(stored) > 0 {
		return Ok(stored), nil
	}
	if storeErr == nil {
		storeErr = fmt.Errorf("%w: no stored matches for league %d", ErrNotFound, leagueID)
	}
	s.logger.WarnContext(ctx, "stored h2h matches unavailable, reading live feed", "league_id", leagueID, "error", storeErr)

	fetched, feedErr := s.feed.FetchH2HMatches(ctx, leagueID)
	if feedErr != nil {
		return Result[[]h2h.Match]{}, fmt.Errorf("%w: h2h matches: %w", ErrDependencyUnavailable, errors.Join(storeErr, feedErr))
	}
	return Degraded(fetched, fmt.Sprintf("matches read from live feed: %v", storeErr)), nil
}

// window lists the gameweeks luck may use. Without event metadata it falls
// back to every match event up to through.
func (s *LuckService) window(ctx context.Context, matches []h2h.Match, through int) Result[[]int] {
	events := s.gameweeks.Events(ctx)
	if events.Outcome != OutcomeFailed {
		completed := s.gameweeks.TrustedCompleted(events.Value.Events, through)
		if events.Outcome == OutcomeDegraded {
			return Degraded(completed, events.Reason)
		}
		return Ok(completed)
	}

	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, match := range matches {
		if match.Event > through {
			continue
		}
		if _, ok := seen[match.Event]; !ok {
			seen[match.Event] = struct{}{}
			out = append(out, match.Event)
		}
	}
	return Degraded(out, "event metadata unavailable, window taken from match rows")
}

type entryHistoryRow struct {
	entryID int
	history EntryHistory
	err     error
}

// chipUsages prefetches every entry's history concurrently. Any feed failure
// switches the whole league to stored chips so every manager is counted from
// the same source.
func (s *LuckService) chipUsages(ctx context.Context, entryIDs []int) Result[[]fantasy.ChipUsage] {
	if len(entryIDs) == 0 {
		return Ok([]fantasy.ChipUsage{})
	}

	p := pool.NewWithResults[entryHistoryRow]().WithMaxGoroutines(min(s.maxConcurrency, len(entryIDs)))
	for _, entryID := range entryIDs {
		p.Go(func() entryHistoryRow {
			history, err := s.feed.FetchEntryHistory(ctx, entryID)
			return entryHistoryRow{entryID: entryID, history: history, err: err}
		})
	}
	rows := p.Wait()

	var (
		usages []fantasy.ChipUsage
		errs   []error
	)
	for _, row := range rows {
		if row.err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", row.entryID, row.err))
			continue
		}
		usages = append(usages, row.history.Chips...)
	}
	if len(errs) == 0 {
		return Ok(usages)
	}

	feedErr := errors.Join(errs...)
	s.logger.WarnContext(ctx, "entry histories from live feed failed, reading stored chips", "failed", len(errs), "error", feedErr)
	stored, storeErr := s.store.Squads.ListChipUsages(ctx, entryIDs)
	if storeErr == nil {
		return Degraded(stored, fmt.Sprintf("chips read from store: %d entry histories unavailable", len(errs)))
	}

	s.logger.WarnContext(ctx, "stored chips unavailable, using partial feed chips", "error", storeErr)
	return Degraded(usages, fmt.Sprintf("chip history partial: %d entries without history", len(errs)))
}
