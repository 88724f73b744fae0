package app

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/MKhiriev/apitools/internal/server"
)

// DefaultPort is used by Start when port is 0.
const DefaultPort = 3000

// Start listens on port (DefaultPort when 0) on all interfaces and serves in
// the background.
func (a *Application) Start(port int) (*Application, error) {
	if port == 0 {
		port = DefaultPort
	}

	if _, err := a.Listen(":" + strconv.Itoa(port)); err != nil {
		return a, err
	}

	a.logger.Info().Msgf("Application started. Visit: http://localhost:%d.", port)
	return a, nil
}

// Listen binds addr and serves in the background.
func (a *Application) Listen(addr string) (*Application, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.srv != nil {
		return a, ErrAlreadyStarted
	}

	srv := a.newServer(a)
	if err := srv.Listen(addr); err != nil {
		return a, fmt.Errorf("listen %s: %w", addr, err)
	}

	a.srv = srv
	a.served = server.Serve(srv)
	return a, nil
}

// Addr returns the bound address, nil before Start or Listen.
func (a *Application) Addr() net.Addr {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.srv == nil {
		return nil
	}
	return a.srv.Addr()
}

// Shutdown stops the listener gracefully.
func (a *Application) Shutdown(ctx context.Context) error {
	a.mu.RLock()
	srv := a.srv
	a.mu.RUnlock()

	if srv == nil {
		return ErrNotStarted
	}
	return srv.Shutdown(ctx)
}

// Run blocks until ctx ends or the process receives SIGINT, SIGTERM or
// SIGQUIT, then shuts the listener down gracefully.
func (a *Application) Run(ctx context.Context) error {
	a.mu.RLock()
	srv, served := a.srv, a.served
	a.mu.RUnlock()

	if srv == nil {
		return ErrNotStarted
	}
	return server.Wait(ctx, srv, served, a.shutdownTimeout, a.logger)
}
