package chain

import "errors"

var (
	// ErrPanic wraps values recovered from panicking steps.
	ErrPanic = errors.New("panic")
	// ErrNilFailure replaces a nil error passed to Fail.
	ErrNilFailure = errors.New("step failed without an error")
)
