package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
	"github.com/gregleo12/fpl-sub001/internal/domain/scoring"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
)

const defaultScoringMaxConcurrency = 8

type LeagueScores struct {
	LeagueID    int             `json:"league_id"`
	Gameweek    int             `json:"gameweek"`
	Status      gameweek.Status `json:"status"`
	Source      DataSource      `json:"source"`
	Outcome     Outcome         `json:"outcome"`
	Reason      string          `json:"reason,omitempty"`
	Unavailable int             `json:"unavailable_count"`
	Degraded    int             `json:"degraded_count"`
	Managers    []ManagerScore  `json:"managers"`
}

type ScoringService struct {
	gameweeks      *GameweekService
	router         *ScoreRouter
	feed           LiveFeed
	entries        h2h.Repository
	calculator     *scoring.Calculator
	maxConcurrency int
	logger         *logging.Logger
}

func NewScoringService(
	gameweeks *GameweekService,
	router *ScoreRouter,
	feed LiveFeed,
	entries h2h.Repository,
	calculator *scoring.Calculator,
	maxConcurrency int,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxConcurrency < 1 {
		maxConcurrency = defaultScoringMaxConcurrency
	}
	if calculator == nil {
		calculator = scoring.NewCalculator(scoring.DefaultRules())
	}
	return &ScoringService{
		gameweeks:      gameweeks,
		router:         router,
		feed:           feed,
		entries:        entries,
		calculator:     calculator,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// LeagueScores scores every manager of an H2H league for a gameweek. One
// manager's failure never removes them from the response: they are reported
// as an unavailable zero.
func (s *ScoringService) LeagueScores(ctx context.Context, leagueID, gw int) (LeagueScores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.LeagueScores",
		attribute.Int("league_id", leagueID),
		attribute.Int("gameweek", gw),
	)
	defer span.End()

	if leagueID <= 0 {
		return LeagueScores{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if err := validateGameweekInput(gw); err != nil {
		return LeagueScores{}, err
	}

	roster := s.LeagueEntries(ctx, leagueID)
	if roster.Outcome == OutcomeFailed {
		return LeagueScores{}, fmt.Errorf("%w: league %d roster: %s", ErrDependencyUnavailable, leagueID, roster.Reason)
	}

	status, err := s.gameweeks.Status(ctx, gw)
	if err != nil {
		return LeagueScores{}, err
	}
	snap := s.router.Snapshot(ctx, gw, status.Value.TrustedStatus)

	entryIDs := make([]int, 0, len(roster.Value))
	for _, entry := range roster.Value {
		if entry.ID > h2h.AverageEntryID {
			entryIDs = append(entryIDs, entry.ID)
		}
	}

	managers, err := s.scoreManagers(ctx, snap, entryIDs)
	if err != nil {
		return LeagueScores{}, err
	}

	out := LeagueScores{
		LeagueID: leagueID,
		Gameweek: gw,
		Status:   status.Value.TrustedStatus,
		Source:   snap.Value.Source,
		Outcome:  worse(worse(roster.Outcome, status.Outcome), snap.Outcome),
		Reason:   joinReasons(joinReasons(roster.Reason, status.Reason), snap.Reason),
		Managers: managers,
	}
	for _, item := range managers {
		switch item.Outcome {
		case OutcomeFailed:
			out.Unavailable++
		case OutcomeDegraded:
			out.Degraded++
		}
	}
	if out.Outcome == OutcomeOK && (out.Unavailable > 0 || out.Degraded > 0) {
		out.Outcome = OutcomeDegraded
		out.Reason = fmt.Sprintf("%d managers unavailable, %d degraded", out.Unavailable, out.Degraded)
	}
	markSpanOutcome(span, out.Outcome, out.Reason)
	return out, nil
}

// EntryScore scores one manager. The league roster, when readable, must
// contain the entry.
func (s *ScoringService) EntryScore(ctx context.Context, leagueID, entryID, gw int) (ManagerScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EntryScore",
		attribute.Int("league_id", leagueID),
		attribute.Int("entry_id", entryID),
		attribute.Int("gameweek", gw),
	)
	defer span.End()

	if leagueID <= 0 || entryID <= 0 {
		return ManagerScore{}, fmt.Errorf("%w: league and entry ids must be greater than zero", ErrInvalidInput)
	}
	if err := validateGameweekInput(gw); err != nil {
		return ManagerScore{}, err
	}

	roster := s.LeagueEntries(ctx, leagueID)
	if roster.Outcome != OutcomeFailed && !containsEntry(roster.Value, entryID) {
		return ManagerScore{}, fmt.Errorf("%w: entry %d not in league %d", ErrNotFound, entryID, leagueID)
	}

	status, err := s.gameweeks.Status(ctx, gw)
	if err != nil {
		return ManagerScore{}, err
	}
	snap := s.router.Snapshot(ctx, gw, status.Value.TrustedStatus)
	if status.Outcome != OutcomeOK {
		snap.Outcome = worse(snap.Outcome, status.Outcome)
		snap.Reason = joinReasons(status.Reason, snap.Reason)
	}

	return flattenScore(s.router.ManagerScore(ctx, snap, entryID)), nil
}

// CalculatePoints scores a single stat line with the configured rules.
func (s *ScoringService) CalculatePoints(stat playerstats.StatLine, position player.Position) (scoring.Points, error) {
	if !position.Valid() {
		return scoring.Points{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, position)
	}
	return s.calculator.Calculate(stat, position), nil
}

// LeagueEntries reads the league roster from the live feed, falling back to
// the store.
func (s *ScoringService) LeagueEntries(ctx context.Context, leagueID int) Result[[]h2h.Entry] {
	return leagueEntries(ctx, s.feed, s.entries, s.logger, leagueID)
}

func leagueEntries(ctx context.Context, feed LiveFeed, repo h2h.Repository, logger *logging.Logger, leagueID int) Result[[]h2h.Entry] {
	entries, feedErr := feed.FetchLeagueEntries(ctx, leagueID)
	if feedErr == nil {
		return Ok(entries)
	}
	logger.WarnContext(ctx, "league entries from live feed failed, reading store", "league_id", leagueID, "error", feedErr)

	stored, storeErr := repo.ListEntries(ctx, leagueID)
	if storeErr != nil {
		return Failed([]h2h.Entry(nil), fmt.Sprintf("feed: %v; store: %v", feedErr, storeErr))
	}
	if len(stored) == 0 {
		return Failed([]h2h.Entry(nil), fmt.Sprintf("feed: %v; store: no entries for league %d", feedErr, leagueID))
	}
	return Degraded(stored, fmt.Sprintf("%v: %v", ErrUpstreamUnavailable, feedErr))
}

func (s *ScoringService) scoreManagers(ctx context.Context, snap Result[GameweekSnapshot], entryIDs []int) ([]ManagerScore, error) {
	if len(entryIDs) == 0 {
		return []ManagerScore{}, nil
	}

	workerCount := min(s.maxConcurrency, len(entryIDs))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ManagerScore, len(entryIDs))
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, entryID := range entryIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			row := s.scoreOne(ctx, snap, entryID)
			if row.Outcome == OutcomeFailed {
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit manager score to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	byEntry := make(map[int]ManagerScore, len(entryIDs))
	for row := range results {
		byEntry[row.EntryID] = row
	}
	out := make([]ManagerScore, 0, len(byEntry))
	for _, item := range byEntry {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryID < out[j].EntryID })

	if failed := failedCount.Load(); failed > 0 {
		s.logger.WarnContext(ctx, "league scoring finished with unavailable managers",
			"gameweek", snap.Value.Gameweek,
			"managers", len(entryIDs),
			"unavailable", failed,
		)
	}
	return out, nil
}

// scoreOne isolates a single manager: a panic becomes an unavailable zero.
func (s *ScoringService) scoreOne(ctx context.Context, snap Result[GameweekSnapshot], entryID int) (row ManagerScore) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.ErrorContext(ctx, "manager score computation panicked",
				"entry_id", entryID,
				"gameweek", snap.Value.Gameweek,
				"panic", fmt.Sprint(recovered),
			)
			row = ManagerScore{
				EntryID:     entryID,
				Gameweek:    snap.Value.Gameweek,
				Source:      snap.Value.Source,
				Unavailable: true,
				Outcome:     OutcomeFailed,
				Reason:      "score computation failed",
			}
		}
	}()
	return flattenScore(s.router.ManagerScore(ctx, snap, entryID))
}

func flattenScore(result Result[ManagerScore]) ManagerScore {
	out := result.Value
	out.Outcome = result.Outcome
	out.Reason = result.Reason
	return out
}

func containsEntry(entries []h2h.Entry, entryID int) bool {
	for _, entry := range entries {
		if entry.ID == entryID {
			return true
		}
	}
	return false
}
