package fpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/gregleo12/fpl-sub001/internal/platform/resilience"
	"github.com/gregleo12/fpl-sub001/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://fantasy.premierleague.com/api"
	defaultUserAgent    = "fpl-h2h-engine/1.0"
	defaultRetryBackoff = time.Second
	maxPages            = 200
	maxBodyBytes        = 16 << 20
)

var errFPLTransient = crerr.New("fpl transient failure")

var _ usecase.LiveFeed = (*Client)(nil)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public FPL API. Every call is rate limited, retried on
// transient failures and guarded by a circuit breaker; identical concurrent
// requests share one round trip.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	maxRetries   int
	retryBackoff time.Duration
	limiter      *rate.Limiter
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.Flight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), max(cfg.RateLimitBurst, 1))
	}
	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker, resilience.WithStateHook(func(from, to resilience.CircuitState) {
		logger.Warn("fpl circuit breaker state changed", "from", string(from), "to", string(to))
	}))

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		userAgent:    userAgent,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		limiter:      limiter,
		logger:       logger,
		breaker:      breaker,
	}
}

func (c *Client) FetchBootstrap(ctx context.Context) (usecase.Bootstrap, error) {
	var payload bootstrapEnvelope
	if err := c.doJSON(ctx, "/bootstrap-static/", nil, &payload); err != nil {
		return usecase.Bootstrap{}, fmt.Errorf("fetch bootstrap: %w", err)
	}

	out := usecase.Bootstrap{
		Events:  make([]gameweek.Event, 0, len(payload.Events)),
		Players: make([]player.Player, 0, len(payload.Elements)),
	}
	for _, item := range payload.Events {
		if item.ID <= 0 {
			continue
		}
		out.Events = append(out.Events, mapEvent(item))
	}
	sort.Slice(out.Events, func(i, j int) bool { return out.Events[i].ID < out.Events[j].ID })

	skipped := 0
	for _, item := range payload.Elements {
		mapped, ok := mapElement(item)
		if !ok {
			skipped++
			continue
		}
		out.Players = append(out.Players, mapped)
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "bootstrap elements skipped", "skipped", skipped)
	}
	return out, nil
}

func (c *Client) FetchLiveStats(ctx context.Context, gw int) ([]playerstats.StatLine, error) {
	if err := gameweek.ValidateGameweek(gw); err != nil {
		return nil, err
	}

	var payload liveEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/event/%d/live/", gw), nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch live stats gameweek=%d: %w", gw, err)
	}

	out := make([]playerstats.StatLine, 0, len(payload.Elements))
	for _, item := range payload.Elements {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapLiveElement(gw, item))
	}
	return out, nil
}

func (c *Client) FetchPicks(ctx context.Context, entryID, gw int) (usecase.EntryPicks, error) {
	if entryID <= 0 {
		return usecase.EntryPicks{}, fmt.Errorf("entry id must be greater than zero")
	}
	if err := gameweek.ValidateGameweek(gw); err != nil {
		return usecase.EntryPicks{}, err
	}

	var payload picksEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gw), nil, &payload); err != nil {
		return usecase.EntryPicks{}, fmt.Errorf("fetch picks entry=%d gameweek=%d: %w", entryID, gw, err)
	}

	out := usecase.EntryPicks{
		EntryID:  entryID,
		Gameweek: gw,
		Picks:    make([]fantasy.SquadPick, 0, len(payload.Picks)),
		History:  mapHistory(entryID, payload.EntryHistory),
	}
	if payload.ActiveChip != nil {
		if chip, ok := mapChip(*payload.ActiveChip); ok {
			out.ActiveChip = chip
		}
	}
	for _, item := range payload.Picks {
		out.Picks = append(out.Picks, fantasy.SquadPick{
			EntryID:        entryID,
			Gameweek:       gw,
			PlayerID:       item.Element,
			LineupPosition: item.Position,
			Multiplier:     item.Multiplier,
			IsCaptain:      item.IsCaptain,
			IsViceCaptain:  item.IsViceCaptain,
		})
	}
	return out, nil
}

func (c *Client) FetchEntryHistory(ctx context.Context, entryID int) (usecase.EntryHistory, error) {
	if entryID <= 0 {
		return usecase.EntryHistory{}, fmt.Errorf("entry id must be greater than zero")
	}

	var payload historyEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/entry/%d/history/", entryID), nil, &payload); err != nil {
		return usecase.EntryHistory{}, fmt.Errorf("fetch entry history entry=%d: %w", entryID, err)
	}

	out := usecase.EntryHistory{
		EntryID:   entryID,
		Gameweeks: make([]h2h.ManagerGWHistory, 0, len(payload.Current)),
		Chips:     make([]fantasy.ChipUsage, 0, len(payload.Chips)),
	}
	for _, item := range payload.Current {
		out.Gameweeks = append(out.Gameweeks, mapHistory(entryID, item))
	}
	for _, item := range payload.Chips {
		chip, ok := mapChip(item.Name)
		if !ok {
			continue
		}
		out.Chips = append(out.Chips, fantasy.ChipUsage{EntryID: entryID, Gameweek: item.Event, Chip: chip})
	}
	return out, nil
}

func (c *Client) FetchH2HMatches(ctx context.Context, leagueID int) ([]h2h.Match, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	out := make([]h2h.Match, 0, 256)
	path := fmt.Sprintf("/leagues-h2h-matches/league/%d/", leagueID)
	for page := 1; page <= maxPages; page++ {
		var payload matchesEnvelope
		query := map[string]string{"page": strconv.Itoa(page)}
		if err := c.doJSON(ctx, path, query, &payload); err != nil {
			return nil, fmt.Errorf("fetch h2h matches league=%d page=%d: %w", leagueID, page, err)
		}
		for _, item := range payload.Results {
			if item.Event <= 0 {
				continue
			}
			out = append(out, mapMatch(leagueID, item))
		}
		if !payload.HasNext {
			return out, nil
		}
	}

	c.logger.WarnContext(ctx, "h2h matches truncated at page limit", "league_id", leagueID, "max_pages", maxPages)
	return out, nil
}

func (c *Client) FetchLeagueEntries(ctx context.Context, leagueID int) ([]h2h.Entry, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	out := make([]h2h.Entry, 0, 32)
	path := fmt.Sprintf("/leagues-h2h/%d/standings/", leagueID)
	for page := 1; page <= maxPages; page++ {
		var payload standingsEnvelope
		query := map[string]string{"page_standings": strconv.Itoa(page)}
		if err := c.doJSON(ctx, path, query, &payload); err != nil {
			return nil, fmt.Errorf("fetch league entries league=%d page=%d: %w", leagueID, page, err)
		}
		for _, item := range payload.Standings.Results {
			if item.Entry <= 0 {
				continue
			}
			out = append(out, h2h.Entry{
				ID:         item.Entry,
				LeagueID:   leagueID,
				Name:       strings.TrimSpace(item.EntryName),
				PlayerName: strings.TrimSpace(item.PlayerName),
			})
		}
		if !payload.Standings.HasNext {
			return out, nil
		}
	}

	c.logger.WarnContext(ctx, "league entries truncated at page limit", "league_id", leagueID, "max_pages", maxPages)
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, _, err := c.flight.Do(ctx, fullURL, func() ([]byte, error) {
		var body []byte
		err := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isCircuitFailure)
		return body, err
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "path", path, "state", string(c.breaker.State()))
		return fmt.Errorf("%w: fpl api is temporarily unavailable", usecase.ErrUpstreamUnavailable)
	}
	if err != nil {
		if isCircuitFailure(err) {
			return fmt.Errorf("%w: %w", usecase.ErrUpstreamUnavailable, err)
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode fpl payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Wrap(err, "wait for rate limiter")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errFPLTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(crerr.Wrap(readErr, "read response body"), errFPLTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errFPLTransient)
			default:
				return nil, crerr.Newf("fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("fpl request failed")
	}
	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errFPLTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
