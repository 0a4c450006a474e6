package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	SessionBackendCookie = "cookie"
	SessionBackendServer = "server"
)

type ServicesConfig struct {
	APIGateway string        `env:"API_BASE_URL, default=http://localhost:8000"`
	IoT        string        `env:"IOT_SERVICE_URL, default=http://localhost:8001"`
	Business   string        `env:"BUSINESS_SERVICE_URL, default=http://localhost:8002"`
	Analytics  string        `env:"ANALYTICS_SERVICE_URL, default=http://localhost:8003"`
	Timeout    time.Duration `env:"API_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	Secret  string        `env:"SESSION_SECRET, default=shroomlab-dev-session-secret-change-me"`
	Backend string        `env:"SESSION_BACKEND, default=cookie"`
	TTL     time.Duration `env:"SESSION_TTL, default=24h"`
	Secure  bool          `env:"COOKIE_SECURE, default=false"`
	// Strict keeps the session when the identity lookup fails for reasons
	// other than a rejected token (network errors, 5xx).
	Strict bool `env:"STRICT_SESSION_ERRORS, default=false"`
}

type ObservabilityConfig struct {
	ServiceName  string `env:"OTEL_SERVICE_NAME, default=shroomlab-web"`
	OTLPEndpoint string `env:"OTEL_ENDPOINT, default=otel-collector:4318"`
	MetricsAddr  string `env:"METRICS_ADDR, default=:9092"`
	PprofAddr    string `env:"PPROF_ADDR, default=:6060"`
	LogLevel     string `env:"LOG_LEVEL, default=info"`
}

type LinksConfig struct {
	APIDocs  string `env:"API_DOCS_URL, default=http://localhost:8000/docs"`
	InfluxUI string `env:"INFLUX_UI_URL, default=http://localhost:8086"`
}

type Config struct {
	ServerPort string `env:"SERVER_PORT, default=8091"`
	// ShutdownTimeout bounds how long in-flight requests get after SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=5s"`
	Services        ServicesConfig
	Session         SessionConfig
	Observability   ObservabilityConfig
	Links           LinksConfig
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadWith(context.Background(), envconfig.OsLookuper())
}

// LoadWith reads the configuration from an arbitrary lookuper, which keeps
// tests away from the real environment.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.Services.APIGateway = strings.TrimRight(cfg.Services.APIGateway, "/")
	cfg.Services.IoT = strings.TrimRight(cfg.Services.IoT, "/")
	cfg.Services.Business = strings.TrimRight(cfg.Services.Business, "/")
	cfg.Services.Analytics = strings.TrimRight(cfg.Services.Analytics, "/")

	switch cfg.Session.Backend {
	case SessionBackendCookie, SessionBackendServer:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q",
			SessionBackendCookie, SessionBackendServer, cfg.Session.Backend)
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}

	if len(cfg.Session.Secret) < 16 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}

	return &cfg, nil
}
