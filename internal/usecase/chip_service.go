package usecase

import (
	"context"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
)

type EntryChips struct {
	EntryID  int                  `json:"entry_id"`
	Gameweek int                  `json:"gameweek"`
	Source   DataSource           `json:"source"`
	Chips    []fantasy.ChipStatus `json:"chips"`
}

type ChipService struct {
	feed   LiveFeed
	squads fantasy.Repository
	rules  fantasy.ChipRules
	logger *logging.Logger
}

func NewChipService(feed LiveFeed, squads fantasy.Repository, rules fantasy.ChipRules, logger *logging.Logger) *ChipService {
	if logger == nil {
		logger = logging.Default()
	}
	if rules.RenewalGameweek <= 0 || rules.UsesPerHalf <= 0 {
		rules = fantasy.DefaultChipRules()
	}
	return &ChipService{
		feed:   feed,
		squads: squads,
		rules:  rules,
		logger: logger,
	}
}

// Availability reports which chips an entry can still play in a gameweek.
// Without any readable history every chip is reported available.
func (s *ChipService) Availability(ctx context.Context, entryID, gw int) (Result[EntryChips], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChipService.Availability")
	defer span.End()

	if entryID <= 0 {
		return Result[EntryChips]{}, fmt.Errorf("%w: entry id must be greater than zero", ErrInvalidInput)
	}
	if err := validateGameweekInput(gw); err != nil {
		return Result[EntryChips]{}, err
	}

	out := EntryChips{EntryID: entryID, Gameweek: gw, Source: SourceLiveFeed}
	usages, outcome, reason := s.usages(ctx, entryID)
	if outcome == OutcomeFailed {
		out.Source = SourceNone
		out.Chips = fantasy.AllChipsAvailable()
		result := Degraded(out, reason)
		markSpanOutcome(span, result.Outcome, result.Reason)
		return result, nil
	}
	if outcome == OutcomeDegraded {
		out.Source = SourceStore
	}

	if err := fantasy.ValidateChipUsages(usages, s.rules); err != nil {
		s.logger.WarnContext(ctx, "entry chip history is inconsistent", "entry_id", entryID, "error", err)
	}

	chips, err := fantasy.ChipAvailability(usages, gw, s.rules)
	if err != nil {
		return Result[EntryChips]{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	out.Chips = chips

	if outcome == OutcomeDegraded {
		return Degraded(out, reason), nil
	}
	return Ok(out), nil
}

func (s *ChipService) usages(ctx context.Context, entryID int) ([]fantasy.ChipUsage, Outcome, string) {
	history, feedErr := s.feed.FetchEntryHistory(ctx, entryID)
	if feedErr == nil {
		return history.Chips, OutcomeOK, ""
	}
	s.logger.WarnContext(ctx, "entry history from live feed failed, reading store", "entry_id", entryID, "error", feedErr)

	stored, storeErr := s.squads.ListChipUsages(ctx, []int{entryID})
	if storeErr != nil {
		s.logger.WarnContext(ctx, "chip usages from store failed, assuming all chips available", "entry_id", entryID, "error", storeErr)
		return nil, OutcomeFailed, fmt.Sprintf("%v: chip history unavailable, all chips assumed available", ErrUpstreamUnavailable)
	}
	return stored, OutcomeDegraded, fmt.Sprintf("%v: %v", ErrUpstreamUnavailable, feedErr)
}
