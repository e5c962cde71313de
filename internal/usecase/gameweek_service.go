package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// DataSource names where a value was read from.
type DataSource string

const (
	SourceLiveFeed DataSource = "live_feed"
	SourceStore    DataSource = "store"
	SourceNone     DataSource = "none"
)

type GameweekStatus struct {
	Gameweek      int             `json:"gameweek"`
	Status        gameweek.Status `json:"status"`
	TrustedStatus gameweek.Status `json:"trusted_status"`
	DeadlineTime  *time.Time      `json:"deadline_time,omitempty"`
	Source        DataSource      `json:"source"`
}

// SeasonEvents is the event list together with where it came from.
type SeasonEvents struct {
	Events []gameweek.Event
	Source DataSource
}

type GameweekService struct {
	feed     LiveFeed
	events   gameweek.Repository
	resolver *gameweek.Resolver
	logger   *logging.Logger
}

func NewGameweekService(feed LiveFeed, events gameweek.Repository, resolver *gameweek.Resolver, logger *logging.Logger) *GameweekService {
	if logger == nil {
		logger = logging.Default()
	}
	if resolver == nil {
		resolver = gameweek.NewResolver(gameweek.DefaultTrustBuffer)
	}
	return &GameweekService{
		feed:     feed,
		events:   events,
		resolver: resolver,
		logger:   logger,
	}
}

func validateGameweekInput(gw int) error {
	if err := gameweek.ValidateGameweek(gw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// Status resolves a gameweek from the live feed. When the feed is down the
// gameweek is reported live, never upcoming nor completed.
func (s *GameweekService) Status(ctx context.Context, gw int) (Result[GameweekStatus], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.Status", attribute.Int("gameweek", gw))
	defer span.End()

	if err := validateGameweekInput(gw); err != nil {
		return Result[GameweekStatus]{}, err
	}

	bootstrap, err := s.feed.FetchBootstrap(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "gameweek status falls back to live", "gameweek", gw, "error", err)
		status := gameweek.ResolveOrLive(gameweek.Event{ID: gw}, err)
		out := Degraded(GameweekStatus{
			Gameweek:      gw,
			Status:        status,
			TrustedStatus: status,
			Source:        SourceNone,
		}, fmt.Sprintf("%v: %v", ErrUpstreamUnavailable, err))
		markSpanOutcome(span, out.Outcome, out.Reason)
		return out, nil
	}

	return Ok(s.resolve(bootstrap.Events, gw, SourceLiveFeed)), nil
}

func (s *GameweekService) resolve(events []gameweek.Event, gw int, source DataSource) GameweekStatus {
	out := GameweekStatus{Gameweek: gw, Source: source}
	event, next, ok := gameweek.FindEvent(events, gw)
	if !ok {
		out.Status = gameweek.StatusUpcoming
		out.TrustedStatus = gameweek.StatusUpcoming
		return out
	}

	out.Status = s.resolver.Resolve(event)
	out.TrustedStatus = s.resolver.ResolveTrusted(event, next)
	if !event.DeadlineTime.IsZero() {
		deadline := event.DeadlineTime.UTC()
		out.DeadlineTime = &deadline
	}
	return out
}

// Events lists season events from the feed, falling back to the store.
func (s *GameweekService) Events(ctx context.Context) Result[SeasonEvents] {
	bootstrap, feedErr := s.feed.FetchBootstrap(ctx)
	if feedErr == nil {
		return Ok(SeasonEvents{Events: sortEvents(bootstrap.Events), Source: SourceLiveFeed})
	}

	s.logger.WarnContext(ctx, "list events from live feed failed, reading store", "error", feedErr)
	stored, storeErr := s.events.ListEvents(ctx)
	if storeErr != nil {
		s.logger.WarnContext(ctx, "list events from store failed", "error", storeErr)
		return Failed(SeasonEvents{Source: SourceNone}, fmt.Sprintf("events unavailable: feed: %v; store: %v", feedErr, storeErr))
	}
	return Degraded(SeasonEvents{Events: sortEvents(stored), Source: SourceStore}, fmt.Sprintf("%v: %v", ErrUpstreamUnavailable, feedErr))
}

// TrustedCompleted returns the ids of gameweeks whose persisted aggregates can
// be trusted, up to and including through.
func (s *GameweekService) TrustedCompleted(events []gameweek.Event, through int) []int {
	out := make([]int, 0, len(events))
	for _, event := range events {
		if event.ID > through {
			continue
		}
		_, next, _ := gameweek.FindEvent(events, event.ID)
		if s.resolver.ResolveTrusted(event, next) == gameweek.StatusCompleted {
			out = append(out, event.ID)
		}
	}
	sort.Ints(out)
	return out
}

func sortEvents(events []gameweek.Event) []gameweek.Event {
	out := append([]gameweek.Event(nil), events...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
