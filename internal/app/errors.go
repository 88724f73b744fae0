package app

import "errors"

var (
	// ErrNotStarted is returned by Run and Shutdown before Start or Listen.
	ErrNotStarted = errors.New("application is not started")

	// ErrAlreadyStarted is returned by a second Start or Listen.
	ErrAlreadyStarted = errors.New("application is already started")
)
