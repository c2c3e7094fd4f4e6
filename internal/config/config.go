package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DeckProviderRemote = "remote"
	DeckProviderLocal  = "local"

	DefaultDeckAPIBase = "https://deckofcardsapi.com/api"
)

type Config struct {
	Addr         string
	DatabasePath string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	AppEnv                string
	WSAllowedOrigins      []string
	DevWebSocketsAllowAll bool

	LogLevel  string
	LogFormat string

	TraceExporter    string
	TraceSampleRatio float64

	DeckProvider string
	DeckAPIBase  string
	DeckTimeout  time.Duration
	DeckSeed     int64

	DealerStepDelay time.Duration
	SessionIdle     time.Duration
	Stakes          map[string]int
}

func (c Config) IsDevelopment() bool { return c.AppEnv == "development" }

// LoadFromEnv reads the process environment. A .env file in the working directory is loaded
// first when present; variables already set in the environment win.
func LoadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not read .env")
	}

	issuer := strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	if issuer == "" {
		issuer = "card-casino"
	}

	cfg := Config{
		Addr:         strings.TrimSpace(os.Getenv("BACKEND_ADDR")),
		DatabasePath: strings.TrimSpace(os.Getenv("DATABASE_PATH")),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    issuer,
		JWTTTL:       time.Duration(envInt("JWT_TTL_MINUTES", 24*60)) * time.Minute,
		AppEnv:       strings.TrimSpace(os.Getenv("APP_ENV")),
		LogLevel:     envString("LOG_LEVEL", "info"),
		LogFormat:    envString("LOG_FORMAT", "text"),

		TraceExporter:    strings.ToLower(envString("TRACE_EXPORTER", "stdout")),
		TraceSampleRatio: envRatio("TRACE_SAMPLE_RATIO", 1),

		DeckProvider: strings.ToLower(envString("DECK_PROVIDER", DeckProviderRemote)),
		DeckAPIBase:  strings.TrimRight(envString("DECK_API_BASE", DefaultDeckAPIBase), "/"),
		DeckTimeout:  time.Duration(envInt("DECK_TIMEOUT_MS", 5000)) * time.Millisecond,
		DeckSeed:     int64(envInt("DECK_SEED", 0)),

		DealerStepDelay: time.Duration(envInt("DEALER_STEP_DELAY_MS", 1500)) * time.Millisecond,
		SessionIdle:     time.Duration(envInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,
		Stakes: map[string]int{
			"blackjack": envInt("BLACKJACK_STAKE", 0),
			"poker":     envInt("POKER_STAKE", 0),
			"highlow":   envInt("HIGHLOW_STAKE", 0),
		},
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ":memory:"
	}

	if v := os.Getenv("WS_ALLOWED_ORIGINS"); v != "" {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				cfg.WSAllowedOrigins = append(cfg.WSAllowedOrigins, p)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("DEV_WEBSOCKETS_ALLOW_ALL")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DevWebSocketsAllowAll = b
		}
	}

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	// BACKEND_ADDR is optional if PORT is set by the hosting environment.
	if cfg.Addr == "" {
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			if strings.Contains(port, ":") {
				cfg.Addr = port
			} else {
				cfg.Addr = ":" + port
			}
		}
	}
	if cfg.Addr == "" {
		missing = append(missing, "BACKEND_ADDR (or PORT)")
	}
	switch cfg.DeckProvider {
	case DeckProviderRemote, DeckProviderLocal:
	default:
		missing = append(missing, fmt.Sprintf("DECK_PROVIDER (%q is not remote or local)", cfg.DeckProvider))
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing/invalid env: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envRatio reads a fraction in [0, 1].
func envRatio(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		logrus.Warnf("invalid %s=%q, using default %g", key, v, def)
		return def
	}
	return f
}

// envInt falls back to def for unset, malformed or negative values.
func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logrus.Warnf("invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
