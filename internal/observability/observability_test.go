package observability

import (
	"context"
	"testing"

	"github.com/gregleo12/fpl-sub001/internal/config"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
)

func disabledConfig() config.Config {
	return config.Config{
		ServiceName:    "fpl-h2h-engine",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}
}

func TestInitUptrace_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() config.Config
	}{
		{name: "flag off", cfg: disabledConfig},
		{name: "empty dsn", cfg: func() config.Config {
			cfg := disabledConfig()
			cfg.UptraceEnabled = true
			cfg.UptraceDSN = "  "
			return cfg
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shutdown, err := InitUptrace(tc.cfg(), logging.NewNop())
			if err != nil {
				t.Fatalf("init uptrace: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown uptrace: %v", err)
			}
		})
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(disabledConfig(), nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestSetup_DisabledShutdownIsClean(t *testing.T) {
	shutdown, err := Setup(disabledConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
