package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	router http.Handler
}

// New creates a new Server instance. The web client owns no storage, so
// there is nothing to connect to up front.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	logger.Info("Gateway configured",
		zap.String("api_base_url", cfg.Services.APIGateway),
		zap.Duration("timeout", cfg.Services.Timeout),
		zap.Bool("strict_session_errors", cfg.Session.Strict))
	return &Server{cfg: cfg, logger: logger}
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// identity lookups and probes are bounded by API_TIMEOUT
		WriteTimeout: s.cfg.Services.Timeout + 20*time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

func (s *Server) GetConfig() *config.Config {
	return s.cfg
}
