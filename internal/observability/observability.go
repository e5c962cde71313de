package observability

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/gregleo12/fpl-sub001/internal/config"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
)

// Setup starts tracing and profiling. The returned shutdown stops both and
// joins their errors.
func Setup(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, crerr.Wrap(err, "init uptrace")
	}

	stopProfiler, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, crerr.Wrap(err, "init pyroscope")
	}

	return func(ctx context.Context) error {
		var errs []error
		if err := stopProfiler(); err != nil {
			errs = append(errs, crerr.Wrap(err, "stop pyroscope"))
		}
		if err := shutdownTracing(ctx); err != nil {
			errs = append(errs, crerr.Wrap(err, "shutdown uptrace"))
		}
		return crerr.Join(errs...)
	}, nil
}
