package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/apitools/internal/logger"
)

// DefaultShutdownTimeout bounds the graceful shutdown in Wait.
const DefaultShutdownTimeout = 10 * time.Second

// Serve runs srv in the background. The returned channel receives the
// result of RunServer once it stops. srv must already be listening.
func Serve(srv Server) <-chan error {
	served := make(chan error, 1)
	go func() {
		served <- srv.RunServer()
	}()
	return served
}

// Wait blocks until ctx ends, SIGINT, SIGTERM or SIGQUIT is received, or
// served delivers, then shuts srv down within shutdownTimeout
// (DefaultShutdownTimeout when <= 0).
func Wait(ctx context.Context, srv Server, served <-chan error, shutdownTimeout time.Duration, log *logger.Logger) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	ctx, stop := signal.NotifyContext(ctx,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	select {
	case err := <-served:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-served; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	log.Info().Msg("server shut down gracefully")
	return nil
}

// Run serves srv and waits for it with [Wait].
func Run(ctx context.Context, srv Server, shutdownTimeout time.Duration, log *logger.Logger) error {
	return Wait(ctx, srv, Serve(srv), shutdownTimeout, log)
}
