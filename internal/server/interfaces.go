package server

//go:generate mockgen -source=interfaces.go -destination=../mock/server_mock.go -package=mock

import (
	"context"
	"net"
)

// Server defines the lifecycle contract of a transport server.
//
// Listen binds the address, RunServer serves on the bound listener and
// blocks until the server stops, Shutdown stops it gracefully.
type Server interface {
	// Listen binds addr. Serving starts with RunServer.
	Listen(addr string) error

	// RunServer serves requests and blocks until the server stops. A
	// graceful shutdown is not an error.
	RunServer() error

	// Shutdown stops accepting connections and waits for in-flight
	// requests until ctx ends.
	Shutdown(ctx context.Context) error

	// Addr returns the bound address, nil before Listen.
	Addr() net.Addr
}
