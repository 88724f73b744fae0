// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package chain executes ordered middleware sequences.
//
// Each step returns an [Outcome] instead of calling a continuation:
// continue with the next step, respond (the request is finished), or fail
// with an error. Once a step fails, only recover steps run until one of
// them responds or resumes the normal path with Next. Panics raised by a
// step are turned into failures, except [http.ErrAbortHandler].
package chain

import (
	"fmt"
	"net/http"
	"slices"

	pkgerrors "github.com/pkg/errors"
)

type action uint8

const (
	actionContinue action = iota
	actionRespond
	actionFail
)

// Outcome is the result of a single step.
type Outcome struct {
	action action
	w      http.ResponseWriter
	r      *http.Request
	err    error
}

// Next continues with the next step using the current writer and request.
func Next() Outcome { return Outcome{action: actionContinue} }

// NextWith continues with a replaced writer and/or request. Nil values keep
// the current ones.
func NextWith(w http.ResponseWriter, r *http.Request) Outcome {
	return Outcome{action: actionContinue, w: w, r: r}
}

// Respond stops the chain: the step has produced the response.
func Respond() Outcome { return Outcome{action: actionRespond} }

// Fail switches the chain to the error path with err.
func Fail(err error) Outcome {
	if err == nil {
		err = ErrNilFailure
	}
	return Outcome{action: actionFail, err: err}
}

// IsNext reports whether the outcome continues the chain.
func (o Outcome) IsNext() bool { return o.action == actionContinue }

// IsRespond reports whether the outcome finished the request.
func (o Outcome) IsRespond() bool { return o.action == actionRespond }

// IsFail reports whether the outcome is a failure.
func (o Outcome) IsFail() bool { return o.action == actionFail }

// Err returns the failure, nil for other outcomes.
func (o Outcome) Err() error { return o.err }

// StepFunc is a step on the normal path.
type StepFunc func(w http.ResponseWriter, r *http.Request) Outcome

// RecoverFunc is a step on the error path. Returning Next clears the error.
type RecoverFunc func(err error, w http.ResponseWriter, r *http.Request) Outcome

// Middleware is a named unit of per-request processing. Exactly one of
// Step and Recover is normally set.
type Middleware struct {
	Name    string
	Step    StepFunc
	Recover RecoverFunc
}

// Step builds a normal-path middleware.
func Step(name string, fn StepFunc) Middleware {
	return Middleware{Name: name, Step: fn}
}

// Recover builds an error-path middleware.
func Recover(name string, fn RecoverFunc) Middleware {
	return Middleware{Name: name, Recover: fn}
}

// Chain is an ordered sequence of middlewares.
type Chain []Middleware

// Names returns the middleware names in order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name
	}
	return names
}

// Then returns a new chain running c followed by next.
func (c Chain) Then(next ...Middleware) Chain {
	return append(slices.Clip(c), next...)
}

// Result is the state left after running a chain.
type Result struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the pending failure when no step recovered it.
	Err error
	// Done is set once a step responded.
	Done bool
}

// Run executes the chain. A non-nil err starts on the error path, which
// lets several chains be run back to back.
func (c Chain) Run(w http.ResponseWriter, r *http.Request, err error) Result {
	for _, m := range c {
		var out Outcome
		switch {
		case err == nil && m.Step != nil:
			out = runStep(m, w, r)
		case err != nil && m.Recover != nil:
			out = runRecover(m, err, w, r)
		default:
			continue
		}

		switch out.action {
		case actionContinue:
			err = nil
			if out.w != nil {
				w = out.w
			}
			if out.r != nil {
				r = out.r
			}
		case actionRespond:
			return Result{W: w, R: r, Done: true}
		case actionFail:
			err = out.err
		}
	}

	return Result{W: w, R: r, Err: err}
}

func runStep(m Middleware, w http.ResponseWriter, r *http.Request) (out Outcome) {
	defer capturePanic(m.Name, &out)
	return m.Step(w, r)
}

func runRecover(m Middleware, err error, w http.ResponseWriter, r *http.Request) (out Outcome) {
	defer capturePanic(m.Name, &out)
	return m.Recover(err, w, r)
}

func capturePanic(name string, out *Outcome) {
	v := recover()
	if v == nil {
		return
	}
	if v == http.ErrAbortHandler {
		panic(v)
	}

	var err error
	if e, ok := v.(error); ok {
		err = fmt.Errorf("%w in %s: %w", ErrPanic, name, e)
	} else {
		err = fmt.Errorf("%w in %s: %v", ErrPanic, name, v)
	}
	*out = Fail(pkgerrors.WithStack(err))
}

// Handler adapts an error-returning handler into a step. A returned error
// enters the error path with a stack trace; otherwise the request is
// considered answered.
func Handler(fn func(w http.ResponseWriter, r *http.Request) error) StepFunc {
	return func(w http.ResponseWriter, r *http.Request) Outcome {
		if err := fn(w, r); err != nil {
			return Fail(pkgerrors.WithStack(err))
		}
		return Respond()
	}
}
