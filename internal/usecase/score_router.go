package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
	"github.com/gregleo12/fpl-sub001/internal/domain/scoring"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
)

// GameweekSnapshot is the read-only per-request view of one gameweek. It is
// built once and shared by every per-manager branch.
type GameweekSnapshot struct {
	Gameweek int
	Status   gameweek.Status
	Source   DataSource
	Players  map[int]player.Player
	Stats    map[int]playerstats.StatLine
	Scores   map[int]fantasy.PlayerScore
}

func emptySnapshot(gw int, status gameweek.Status) GameweekSnapshot {
	return GameweekSnapshot{
		Gameweek: gw,
		Status:   status,
		Source:   SourceNone,
		Players:  map[int]player.Player{},
		Stats:    map[int]playerstats.StatLine{},
		Scores:   map[int]fantasy.PlayerScore{},
	}
}

// Positions maps player ids to positions for lineup validation.
func (s GameweekSnapshot) Positions() map[int]player.Position {
	out := make(map[int]player.Position, len(s.Players))
	for id, item := range s.Players {
		out[id] = item.Position
	}
	return out
}

type ManagerScore struct {
	EntryID       int                          `json:"entry_id"`
	Gameweek      int                          `json:"gameweek"`
	GrossTotal    int                          `json:"gross_total"`
	NetTotal      int                          `json:"net_total"`
	TransferCost  int                          `json:"transfer_cost"`
	ActiveChip    fantasy.Chip                 `json:"active_chip"`
	CaptainName   string                       `json:"captain_name"`
	Unavailable   bool                         `json:"unavailable"`
	Source        DataSource                   `json:"source"`
	Outcome       Outcome                      `json:"outcome"`
	Reason        string                       `json:"reason,omitempty"`
	Players       []fantasy.PlayerContribution `json:"players,omitempty"`
	Substitutions []fantasy.Substitution       `json:"substitutions,omitempty"`
	Missing       []int                        `json:"missing_players,omitempty"`
}

type squadData struct {
	picks        []fantasy.SquadPick
	chip         fantasy.Chip
	transferCost int
	source       DataSource
}

// ScoreRouter picks the authoritative source for a gameweek: persisted
// aggregates once it is completed, the live feed otherwise. Each read falls
// back to the other source before giving up.
type ScoreRouter struct {
	feed       LiveFeed
	store      Store
	calculator *scoring.Calculator
	formation  fantasy.FormationRules
	logger     *logging.Logger
}

func NewScoreRouter(
	feed LiveFeed,
	store Store,
	calculator *scoring.Calculator,
	formation fantasy.FormationRules,
	logger *logging.Logger,
) *ScoreRouter {
	if logger == nil {
		logger = logging.Default()
	}
	if calculator == nil {
		calculator = scoring.NewCalculator(scoring.DefaultRules())
	}
	return &ScoreRouter{
		feed:       feed,
		store:      store,
		calculator: calculator,
		formation:  formation,
		logger:     logger,
	}
}

// Snapshot loads players and stat lines for the gameweek from the source its
// status selects.
func (r *ScoreRouter) Snapshot(ctx context.Context, gw int, status gameweek.Status) Result[GameweekSnapshot] {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreRouter.Snapshot")
	defer span.End()

	if status == gameweek.StatusUpcoming {
		return Ok(emptySnapshot(gw, status))
	}

	primary, secondary := r.loadFromFeed, r.loadFromStore
	if status == gameweek.StatusCompleted {
		primary, secondary = r.loadFromStore, r.loadFromFeed
	}

	snap, err := primary(ctx, gw, status)
	if err == nil {
		return Ok(snap)
	}
	r.logger.WarnContext(ctx, "gameweek snapshot falls back to secondary source",
		"gameweek", gw,
		"status", status,
		"error", err,
	)

	fallback, fallbackErr := secondary(ctx, gw, status)
	if fallbackErr == nil {
		out := Degraded(fallback, fmt.Sprintf("fallback to %s: %v", fallback.Source, err))
		markSpanOutcome(span, out.Outcome, out.Reason)
		return out
	}

	r.logger.ErrorContext(ctx, "gameweek snapshot unavailable",
		"gameweek", gw,
		"primary_error", err,
		"fallback_error", fallbackErr,
	)
	out := Failed(emptySnapshot(gw, status), fmt.Sprintf("snapshot unavailable: %v; %v", err, fallbackErr))
	markSpanOutcome(span, out.Outcome, out.Reason)
	return out
}

func (r *ScoreRouter) loadFromFeed(ctx context.Context, gw int, status gameweek.Status) (GameweekSnapshot, error) {
	bootstrap, err := r.feed.FetchBootstrap(ctx)
	if err != nil {
		return GameweekSnapshot{}, fmt.Errorf("fetch bootstrap: %w", err)
	}
	stats, err := r.feed.FetchLiveStats(ctx, gw)
	if err != nil {
		return GameweekSnapshot{}, fmt.Errorf("fetch live stats: %w", err)
	}
	return r.buildSnapshot(ctx, gw, status, SourceLiveFeed, bootstrap.Players, stats), nil
}

func (r *ScoreRouter) loadFromStore(ctx context.Context, gw int, status gameweek.Status) (GameweekSnapshot, error) {
	players, err := r.store.Players.List(ctx)
	if err != nil {
		return GameweekSnapshot{}, fmt.Errorf("list stored players: %w", err)
	}
	stats, err := r.store.PlayerStats.ListByGameweek(ctx, gw)
	if err != nil {
		return GameweekSnapshot{}, fmt.Errorf("list stored stat lines: %w", err)
	}
	if len(stats) == 0 {
		return GameweekSnapshot{}, fmt.Errorf("%w: no stored stat lines for gameweek %d", ErrNotFound, gw)
	}
	return r.buildSnapshot(ctx, gw, status, SourceStore, players, stats), nil
}

// buildSnapshot scores every player once. For completed gameweeks the
// provider total wins and calculator disagreements are logged.
func (r *ScoreRouter) buildSnapshot(
	ctx context.Context,
	gw int,
	status gameweek.Status,
	source DataSource,
	players []player.Player,
	stats []playerstats.StatLine,
) GameweekSnapshot {
	snap := emptySnapshot(gw, status)
	snap.Source = source
	for _, item := range players {
		snap.Players[item.ID] = item
	}
	snap.Stats = playerstats.IndexByPlayer(stats)

	mismatches := 0
	for id, stat := range snap.Stats {
		position := stat.Position
		meta, known := snap.Players[id]
		if known {
			position = meta.Position
		}
		if !position.Valid() {
			continue
		}

		points := r.calculator.Calculate(stat, position)
		total := points.Total
		if status == gameweek.StatusCompleted {
			if mismatch, differs := scoring.Compare(points, stat.ProviderTotal); differs {
				mismatches++
				r.logger.WarnContext(ctx, "calculated points differ from provider total",
					"gameweek", gw,
					"player_id", id,
					"calculated", mismatch.Calculated,
					"provider", mismatch.Provider,
					"delta", mismatch.Delta,
					"breakdown", points.Breakdown,
				)
				total = mismatch.Provider
			}
		}

		snap.Scores[id] = fantasy.PlayerScore{
			PlayerID:  id,
			Name:      meta.WebName,
			Position:  position,
			Minutes:   stat.Minutes,
			Points:    total,
			Breakdown: points.Breakdown,
		}
	}
	if mismatches > 0 {
		r.logger.InfoContext(ctx, "gameweek snapshot built with provider corrections",
			"gameweek", gw,
			"source", source,
			"mismatches", mismatches,
		)
	}
	return snap
}

// ManagerScore aggregates one entry's gameweek. It never returns an error:
// a manager whose squad cannot be read is reported as an unavailable zero.
func (r *ScoreRouter) ManagerScore(ctx context.Context, snap Result[GameweekSnapshot], entryID int) Result[ManagerScore] {
	base := ManagerScore{
		EntryID:  entryID,
		Gameweek: snap.Value.Gameweek,
		Source:   snap.Value.Source,
	}

	if snap.Value.Status == gameweek.StatusUpcoming {
		return Ok(base)
	}
	if snap.Outcome == OutcomeFailed {
		base.Unavailable = true
		return Failed(base, snap.Reason)
	}

	squad, outcome, reason, err := r.loadSquad(ctx, snap.Value, entryID)
	if err != nil {
		r.logger.WarnContext(ctx, "manager squad unavailable",
			"entry_id", entryID,
			"gameweek", snap.Value.Gameweek,
			"error", err,
		)
		base.Unavailable = true
		return Failed(base, joinReasons(snap.Reason, err.Error()))
	}
	outcome = worse(snap.Outcome, outcome)
	reason = joinReasons(snap.Reason, reason)

	positions := snap.Value.Positions()
	if err := fantasy.ValidatePicks(squad.picks, positions, r.formation); err != nil {
		r.logger.WarnContext(ctx, "squad failed lineup validation, scoring anyway",
			"entry_id", entryID,
			"gameweek", snap.Value.Gameweek,
			"error", err,
		)
	}

	live := fantasy.Aggregate(fantasy.AggregateInput{
		Picks:        squad.picks,
		Players:      snap.Value.Scores,
		Positions:    positions,
		Chip:         squad.chip,
		TransferCost: squad.transferCost,
	}, r.formation)
	if len(live.Missing) > 0 {
		r.logger.WarnContext(ctx, "players without stat lines scored as zero",
			"entry_id", entryID,
			"gameweek", snap.Value.Gameweek,
			"player_ids", live.Missing,
		)
	}

	out := base
	out.Source = squad.source
	out.GrossTotal = live.GrossTotal
	out.NetTotal = live.NetTotal
	out.TransferCost = live.TransferCost
	out.ActiveChip = live.ActiveChip
	out.CaptainName = live.CaptainName
	out.Players = live.Players
	out.Substitutions = live.Substitutions
	out.Missing = live.Missing

	if outcome == OutcomeDegraded {
		return Degraded(out, reason)
	}
	return Ok(out)
}

func (r *ScoreRouter) loadSquad(ctx context.Context, snap GameweekSnapshot, entryID int) (squadData, Outcome, string, error) {
	primary, secondary := r.squadFromFeed, r.squadFromStore
	if snap.Source == SourceStore {
		primary, secondary = r.squadFromStore, r.squadFromFeed
	}

	squad, err := primary(ctx, entryID, snap.Gameweek)
	if err == nil {
		return squad, OutcomeOK, "", nil
	}
	fallback, fallbackErr := secondary(ctx, entryID, snap.Gameweek)
	if fallbackErr == nil {
		return fallback, OutcomeDegraded, fmt.Sprintf("squad fallback to %s: %v", fallback.source, err), nil
	}
	return squadData{}, OutcomeFailed, "", errors.Join(err, fallbackErr)
}

func (r *ScoreRouter) squadFromFeed(ctx context.Context, entryID, gw int) (squadData, error) {
	picks, err := r.feed.FetchPicks(ctx, entryID, gw)
	if err != nil {
		return squadData{}, fmt.Errorf("fetch picks: %w", err)
	}
	return squadData{
		picks:        picks.Picks,
		chip:         picks.ActiveChip,
		transferCost: picks.History.TransferCost,
		source:       SourceLiveFeed,
	}, nil
}

func (r *ScoreRouter) squadFromStore(ctx context.Context, entryID, gw int) (squadData, error) {
	picks, err := r.store.Squads.ListPicks(ctx, entryID, gw)
	if err != nil {
		return squadData{}, fmt.Errorf("list stored picks: %w", err)
	}
	if len(picks) == 0 {
		return squadData{}, fmt.Errorf("%w: no stored picks for entry %d gameweek %d", ErrNotFound, entryID, gw)
	}

	chips, err := r.store.Squads.ListChipUsages(ctx, []int{entryID})
	if err != nil {
		return squadData{}, fmt.Errorf("list stored chips: %w", err)
	}

	history, exists, err := r.store.H2H.GetHistory(ctx, entryID, gw)
	if err != nil {
		return squadData{}, fmt.Errorf("get stored history: %w", err)
	}
	transferCost := 0
	if exists {
		transferCost = history.TransferCost
	}

	return squadData{
		picks:        picks,
		chip:         fantasy.ActiveChip(chips, entryID, gw),
		transferCost: transferCost,
		source:       SourceStore,
	}, nil
}
