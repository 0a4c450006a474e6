package server

import (
	"fmt"
	"time"

	"github.com/gin-contrib/sessions"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lilistrocel/ShroomLab/internal/app/middleware"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
	"github.com/lilistrocel/ShroomLab/internal/pkg/config"
	"github.com/lilistrocel/ShroomLab/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		SkipPaths:  []string{"/healthz"},
		Context:    zapContextFunc(),
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	if err := useSessions(r, cfg.Session, logger); err != nil {
		return nil, err
	}

	routes.Setup(r, cfg, logger)

	return r, nil
}

// useSessions installs the cookie carrier and binds a session Store to every
// request according to the configured backend.
func useSessions(r *gin.Engine, cfg config.SessionConfig, logger *zap.Logger) error {
	store, err := session.NewCookieStore(session.CookieOptions{
		Secret: cfg.Secret,
		MaxAge: cfg.TTL,
		Secure: cfg.Secure,
	})
	if err != nil {
		return fmt.Errorf("failed to create session cookie store: %w", err)
	}
	r.Use(sessions.Sessions(session.CookieName, store))

	storeLogger := logger.Named("session")
	var bind session.Binder
	switch cfg.Backend {
	case config.SessionBackendServer:
		bind = session.CacheBinder(session.NewTable(cfg.TTL), storeLogger)
	default:
		bind = session.CookieBinder(storeLogger)
	}
	r.Use(session.Middleware(bind))

	logger.Info("Session store configured", zap.String("backend", cfg.Backend), zap.Duration("ttl", cfg.TTL))
	return nil
}

// zapContextFunc returns the Zap context function for logging. Request
// bodies are never logged because the login form carries a password.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := middleware.GetRequestID(c); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		return fields
	}
}
