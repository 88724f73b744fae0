package chain

import (
	"context"
	"net/http"
	"sync"
)

type stateKey struct{}

// State is the per-request bookkeeping shared by the steps of a request.
type State struct {
	mu        sync.Mutex
	finishers []func()
	finished  bool
	rendered  error
	aborted   error
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// WithState returns a copy of ctx carrying s.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// StateFrom returns the State stored in ctx, or nil.
func StateFrom(ctx context.Context) *State {
	s, _ := ctx.Value(stateKey{}).(*State)
	return s
}

// OnFinish registers fn to run once the response is complete. Finishers
// run in reverse registration order.
func (s *State) OnFinish(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishers = append(s.finishers, fn)
}

// Finish runs the registered finishers. Later calls do nothing.
func (s *State) Finish() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	fns := s.finishers
	s.finishers = nil
	s.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// SetError records the error rendered for the request.
func (s *State) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = err
}

// Error returns the error recorded with SetError.
func (s *State) Error() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

// Abort records a failure raised by a wrapped http middleware that stopped
// without calling its next handler.
func (s *State) Abort(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted = err
}

func (s *State) takeAbort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.aborted
	s.aborted = nil
	return err
}

// Abort records err on the State of r, when there is one.
func Abort(r *http.Request, err error) {
	if s := StateFrom(r.Context()); s != nil {
		s.Abort(err)
	}
}
