package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/luck"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	CORSAllowedOrigins      []string
	LogLevel                logging.Level
	DBURL                   string
	DBDisablePreparedBinary bool
	SeedFile                string

	FPLBaseURL               string
	FPLUserAgent             string
	FPLTimeout               time.Duration
	FPLMaxRetries            int
	FPLRetryBackoff          time.Duration
	FPLRateLimitRPS          float64
	FPLRateLimitBurst        int
	FPLCircuitEnabled        bool
	FPLCircuitFailureCount   int
	FPLCircuitOpenTimeout    time.Duration
	FPLCircuitHalfOpenMaxReq int

	ScoringMaxConcurrency int
	ScoringRulesFile      string
	StatusTrustBuffer     time.Duration
	LuckDefaultPreset     string
	LuckChipPoints        float64
	LuckVarianceClamp     float64
	LuckZeroSumTolerance  float64
	ChipRenewalGameweek   int

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(getEnv("APP_SERVICE_NAME", "fpl-h2h-engine")),
		ServiceVersion:     strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		SeedFile:           strings.TrimSpace(getEnv("SEED_FILE", "")),
		FPLBaseURL:         strings.TrimRight(strings.TrimSpace(getEnv("FPL_BASE_URL", "https://fantasy.premierleague.com/api")), "/"),
		FPLUserAgent:       strings.TrimSpace(getEnv("FPL_USER_AGENT", "fpl-h2h-engine/1.0")),
		ScoringRulesFile:   strings.TrimSpace(getEnv("SCORING_RULES_FILE", "")),
		LuckDefaultPreset:  strings.TrimSpace(getEnv("LUCK_DEFAULT_PRESET", luck.PresetPrimaryV1)),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeAppName:   strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", "")),
		PyroscopeAuthToken: strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),

		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	if cfg.ServiceName == "" {
		return Config{}, fmt.Errorf("APP_SERVICE_NAME must not be empty")
	}
	if _, err := luck.LookupPreset(cfg.LuckDefaultPreset); err != nil {
		return Config{}, fmt.Errorf("parse LUCK_DEFAULT_PRESET: %w", err)
	}

	if cfg.ReadTimeout, err = positiveDuration("HTTP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = positiveDuration("HTTP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")); err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	if cfg.FPLTimeout, err = positiveDuration("FPL_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.FPLMaxRetries, err = getEnvAsInt("FPL_MAX_RETRIES", 2); err != nil {
		return Config{}, fmt.Errorf("parse FPL_MAX_RETRIES: %w", err)
	}
	if cfg.FPLMaxRetries < 0 {
		return Config{}, fmt.Errorf("FPL_MAX_RETRIES must be >= 0")
	}
	if cfg.FPLRetryBackoff, err = positiveDuration("FPL_RETRY_BACKOFF", "250ms"); err != nil {
		return Config{}, err
	}
	if cfg.FPLRateLimitRPS, err = getEnvAsFloat("FPL_RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, fmt.Errorf("parse FPL_RATE_LIMIT_RPS: %w", err)
	}
	if cfg.FPLRateLimitRPS < 0 {
		return Config{}, fmt.Errorf("FPL_RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.FPLRateLimitBurst, err = getEnvAsInt("FPL_RATE_LIMIT_BURST", 5); err != nil {
		return Config{}, fmt.Errorf("parse FPL_RATE_LIMIT_BURST: %w", err)
	}
	if cfg.FPLRateLimitBurst < 1 {
		return Config{}, fmt.Errorf("FPL_RATE_LIMIT_BURST must be >= 1")
	}
	if cfg.FPLCircuitEnabled, err = strconv.ParseBool(getEnv("FPL_CIRCUIT_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.FPLCircuitFailureCount, err = getEnvAsInt("FPL_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.FPLCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FPL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.FPLCircuitOpenTimeout, err = positiveDuration("FPL_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitHalfOpenMaxReq, err = getEnvAsInt("FPL_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.FPLCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FPL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if cfg.ScoringMaxConcurrency, err = getEnvAsInt("SCORING_MAX_CONCURRENCY", 8); err != nil {
		return Config{}, fmt.Errorf("parse SCORING_MAX_CONCURRENCY: %w", err)
	}
	if cfg.ScoringMaxConcurrency < 1 {
		return Config{}, fmt.Errorf("SCORING_MAX_CONCURRENCY must be >= 1")
	}
	if cfg.StatusTrustBuffer, err = time.ParseDuration(getEnv("STATUS_TRUST_BUFFER", "90m")); err != nil {
		return Config{}, fmt.Errorf("parse STATUS_TRUST_BUFFER: %w", err)
	}
	if cfg.StatusTrustBuffer < 0 {
		return Config{}, fmt.Errorf("STATUS_TRUST_BUFFER must be >= 0")
	}
	if cfg.LuckChipPoints, err = getEnvAsFloat("LUCK_CHIP_POINTS", luck.DefaultChipPoints); err != nil {
		return Config{}, fmt.Errorf("parse LUCK_CHIP_POINTS: %w", err)
	}
	if cfg.LuckVarianceClamp, err = getEnvAsFloat("LUCK_VARIANCE_CLAMP", luck.DefaultVarianceClamp); err != nil {
		return Config{}, fmt.Errorf("parse LUCK_VARIANCE_CLAMP: %w", err)
	}
	if cfg.LuckVarianceClamp <= 0 {
		return Config{}, fmt.Errorf("LUCK_VARIANCE_CLAMP must be > 0")
	}
	if cfg.LuckZeroSumTolerance, err = getEnvAsFloat("LUCK_ZERO_SUM_TOLERANCE", luck.DefaultTolerance); err != nil {
		return Config{}, fmt.Errorf("parse LUCK_ZERO_SUM_TOLERANCE: %w", err)
	}
	if cfg.LuckZeroSumTolerance <= 0 {
		return Config{}, fmt.Errorf("LUCK_ZERO_SUM_TOLERANCE must be > 0")
	}
	if cfg.ChipRenewalGameweek, err = getEnvAsInt("CHIP_RENEWAL_GAMEWEEK", 20); err != nil {
		return Config{}, fmt.Errorf("parse CHIP_RENEWAL_GAMEWEEK: %w", err)
	}
	if err := gameweek.ValidateGameweek(cfg.ChipRenewalGameweek); err != nil {
		return Config{}, fmt.Errorf("parse CHIP_RENEWAL_GAMEWEEK: %w", err)
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeAppName == "" {
		cfg.PyroscopeAppName = cfg.ServiceName
	}
	if cfg.PyroscopeUploadRate, err = positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LuckConfig applies the luck overrides on top of the engine defaults.
func (c Config) LuckConfig() luck.Config {
	out := luck.DefaultConfig()
	out.ChipPoints = c.LuckChipPoints
	out.VarianceClamp = c.LuckVarianceClamp
	out.Tolerance = c.LuckZeroSumTolerance
	return out
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseFloat(value, 64)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
