package app

import (
	"context"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/gregleo12/fpl-sub001/external/fpl"
	"github.com/gregleo12/fpl-sub001/internal/config"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/luck"
	"github.com/gregleo12/fpl-sub001/internal/domain/scoring"
	"github.com/gregleo12/fpl-sub001/internal/interfaces/httpapi"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/gregleo12/fpl-sub001/internal/platform/resilience"
	"github.com/gregleo12/fpl-sub001/internal/usecase"
)

// App owns the HTTP server and the resources it must release on shutdown.
type App struct {
	Server  *http.Server
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, crerr.New("http server addr cannot be empty")
	}

	rules, err := config.LoadRules(cfg.ScoringRulesFile, cfg.ChipRenewalGameweek)
	if err != nil {
		return nil, crerr.Wrap(err, "load rules")
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	feed := fpl.NewClient(fpl.ClientConfig{
		BaseURL:        cfg.FPLBaseURL,
		UserAgent:      cfg.FPLUserAgent,
		Timeout:        cfg.FPLTimeout,
		MaxRetries:     cfg.FPLMaxRetries,
		RetryBackoff:   cfg.FPLRetryBackoff,
		RateLimitRPS:   cfg.FPLRateLimitRPS,
		RateLimitBurst: cfg.FPLRateLimitBurst,
		Logger:         logger.Named("fpl"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})

	handler := newHandler(cfg, rules, feed, store, logger)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger.Named("http"), cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{Server: server, closers: []func() error{closeStore}}, nil
}

func newHandler(cfg config.Config, rules config.Rules, feed usecase.LiveFeed, store usecase.Store, logger *logging.Logger) *httpapi.Handler {
	calculator := scoring.NewCalculator(rules.Scoring)
	resolver := gameweek.NewResolver(cfg.StatusTrustBuffer)

	gameweeks := usecase.NewGameweekService(feed, store.Gameweeks, resolver, logger.Named("usecase.gameweek"))
	router := usecase.NewScoreRouter(feed, store, calculator, rules.Formation, logger.Named("usecase.router"))
	scores := usecase.NewScoringService(
		gameweeks,
		router,
		feed,
		store.H2H,
		calculator,
		cfg.ScoringMaxConcurrency,
		logger.Named("usecase.scoring"),
	)
	luckService := usecase.NewLuckService(
		gameweeks,
		feed,
		store,
		luck.NewEngine(cfg.LuckConfig()),
		rules.Chips,
		cfg.LuckDefaultPreset,
		cfg.ScoringMaxConcurrency,
		logger.Named("usecase.luck"),
	)
	chips := usecase.NewChipService(feed, store.Squads, rules.Chips, logger.Named("usecase.chips"))

	return httpapi.NewHandler(gameweeks, scores, luckService, chips, logger.Named("http"))
}

// Close releases store connections. Call it after the server has shut down.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if closeFn == nil {
			continue
		}
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return crerr.Join(errs...)
}
