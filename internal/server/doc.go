// Package server runs the application's HTTP listener.
//
// It owns the listener lifecycle: binding, serving, signal handling and
// graceful shutdown.
package server
