package app

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/gregleo12/fpl-sub001/internal/config"
	"github.com/gregleo12/fpl-sub001/internal/infrastructure/repository/memory"
	"github.com/gregleo12/fpl-sub001/internal/infrastructure/repository/postgres"
	"github.com/gregleo12/fpl-sub001/internal/platform/dbconn"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/gregleo12/fpl-sub001/internal/usecase"
)

// openStore returns the persisted aggregate store. Postgres is used when
// DB_URL is set, the seeded memory store otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.Store, func() error, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		seed, err := memory.LoadSeed(cfg.SeedFile)
		if err != nil {
			return usecase.Store{}, nil, crerr.Wrap(err, "load memory seed")
		}
		repos := memory.NewRepositories(seed)
		logger.Info("using memory store",
			"seed_file", cfg.SeedFile,
			"events", len(seed.Events),
			"entries", len(seed.Entries),
		)
		return usecase.Store{
			Gameweeks:   repos.Gameweeks,
			Players:     repos.Players,
			PlayerStats: repos.PlayerStats,
			Squads:      repos.Squads,
			H2H:         repos.H2H,
		}, func() error { return nil }, nil
	}

	db, err := dbconn.Open(ctx, dbconn.Options{
		URL:                         cfg.DBURL,
		DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
	})
	if err != nil {
		return usecase.Store{}, nil, err
	}
	logger.Info("using postgres store", "db_name", dbconn.DatabaseName(cfg.DBURL))

	return usecase.Store{
		Gameweeks:   postgres.NewGameweekRepository(db),
		Players:     postgres.NewPlayerRepository(db),
		PlayerStats: postgres.NewPlayerStatsRepository(db),
		Squads:      postgres.NewSquadRepository(db),
		H2H:         postgres.NewH2HRepository(db),
	}, db.Close, nil
}
