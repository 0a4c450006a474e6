package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// GracefulShutdown waits for SIGINT/SIGTERM or for ctx to end, then gives
// in-flight requests up to timeout before closing srv. done receives true once
// Shutdown has returned.
func GracefulShutdown(ctx context.Context, srv *http.Server, timeout time.Duration, logger *zap.Logger, done chan<- bool) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force",
		zap.Duration("timeout", timeout))

	// a second Ctrl+C now kills the process
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}
