// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app builds a chi-backed web application with the apitools
// conventions: the initial middleware chain, standard routes and the final
// error-handling chain.
//
// An [Application] is an ordered list of layers. Each request runs through
// the layers once, in registration order. Routes share a single router
// layer that is inserted when the first route is registered; requests the
// router does not match continue with the layers registered after it.
//
//	a := app.New(cfg, log)
//	a.UseInitialMiddlewares(nil)
//	a.Get("/ok", app.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ... }))
//	a.UseHealthyRoute().UseRootRoute().UseApiFinalMiddlewares(nil)
//	if _, err := a.Start(port); err != nil { ... }
//	err := a.Run(ctx)
package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/apitools/internal/chain"
	myHTTP "github.com/MKhiriev/apitools/internal/handler/http"
	"github.com/MKhiriev/apitools/internal/httperr"
	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/metrics"
	"github.com/MKhiriev/apitools/internal/server"
	"github.com/MKhiriev/apitools/internal/trustproxy"
	"github.com/MKhiriev/apitools/internal/utils"
)

// Application is an http.Handler assembled from middleware layers and
// routes. Layers and routes are registered before serving.
type Application struct {
	composer *myHTTP.Composer
	logger   *logger.Logger

	mu       sync.RWMutex
	layers   chain.Chain
	router   chi.Router
	mounted  bool
	trust    *trustproxy.Set
	greeting string
	recorder *metrics.Recorder

	newServer       func(http.Handler) server.Server
	shutdownTimeout time.Duration
	srv             server.Server
	served          <-chan error
}

// Option customizes an Application.
type Option func(*Application)

// WithGreeting sets the body of the root route.
func WithGreeting(greeting string) Option {
	return func(a *Application) {
		a.greeting = greeting
	}
}

// WithIDGenerator sets the request id generator of the logger slot.
func WithIDGenerator(g utils.IDGenerator) Option {
	return func(a *Application) {
		a.composer = a.composer.WithIDGenerator(g)
	}
}

// WithServerOptions sets the timeouts of the HTTP listener.
func WithServerOptions(opts server.Options) Option {
	return func(a *Application) {
		a.newServer = func(h http.Handler) server.Server {
			return server.NewHTTPServer(h, opts)
		}
	}
}

// WithServer replaces the listener factory.
func WithServer(newServer func(http.Handler) server.Server) Option {
	return func(a *Application) {
		a.newServer = newServer
	}
}

// WithShutdownTimeout bounds the graceful shutdown in Run.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *Application) {
		a.shutdownTimeout = d
	}
}

// New returns an empty Application. Requests that no layer answers end
// with a plain 404 until the final middlewares are registered.
func New(cfg myHTTP.Config, log *logger.Logger, opts ...Option) *Application {
	if log == nil {
		log = logger.Nop()
	}

	trust, _ := trustproxy.Parse(trustproxy.DefaultValue)
	a := &Application{
		composer: myHTTP.NewComposer(cfg, log),
		logger:   log,
		router:   chi.NewRouter(),
		trust:    trust,
		greeting: myHTTP.DefaultGreeting,
		newServer: func(h http.Handler) server.Server {
			return server.NewHTTPServer(h, server.Options{})
		},
		shutdownTimeout: server.DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.router.NotFound(markUnmatched)
	a.router.MethodNotAllowed(myHTTP.CheckHTTPMethod(a.router, markUnmatched))
	return a
}

// Composer returns the composer building the default chains.
func (a *Application) Composer() *myHTTP.Composer {
	return a.composer
}

// Logger returns the application logger.
func (a *Application) Logger() *logger.Logger {
	return a.logger
}

// ServeHTTP runs the request through every layer.
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	layers, trust := a.snapshot()

	rw := myHTTP.NewResponseWriter(w)
	st := chain.NewState()
	defer st.Finish()

	ctx := chain.WithState(r.Context(), st)
	ctx = trustproxy.WithSet(ctx, trust)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, chi.NewRouteContext())

	res := layers.Run(rw, r.WithContext(ctx), nil)
	a.finish(rw, res, st)
}

func (a *Application) snapshot() (chain.Chain, *trustproxy.Set) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	layers := a.layers
	if a.recorder != nil {
		layers = append(chain.Chain{myHTTP.Metrics(a.recorder)}, layers...)
	}
	return layers, a.trust
}

// finish answers requests that left every layer unanswered. A pending
// error is logged and rendered as plain text; when the response has
// already started the connection is aborted instead.
func (a *Application) finish(w *myHTTP.ResponseWriter, res chain.Result, st *chain.State) {
	if res.Done {
		return
	}
	if res.Err == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	he := httperr.Normalize(res.Err)
	if st.Error() == nil {
		st.SetError(he)
	}
	a.logger.Error().Err(res.Err).Int("statusCode", he.StatusCode()).Msg("unhandled request error")

	if w.HeadersSent() {
		panic(http.ErrAbortHandler)
	}
	http.Error(w, http.StatusText(he.StatusCode()), he.StatusCode())
}

// Use appends layers.
func (a *Application) Use(layers ...chain.Middleware) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.layers = append(a.layers, layers...)
	return a
}

// UseHTTP appends a standard net/http middleware as a layer.
func (a *Application) UseHTTP(name string, mw func(http.Handler) http.Handler) *Application {
	return a.Use(chain.FromHTTP(name, mw))
}

// UseInitialMiddlewares appends helmet, forceHttps, cors, logger, json and
// urlencoded, minus the slots opts disables.
func (a *Application) UseInitialMiddlewares(opts myHTTP.Options) *Application {
	return a.Use(a.composer.InitialChain(opts)...)
}

// UseApiFinalMiddlewares appends notFound, validationErrors and errors,
// minus the slots opts disables.
func (a *Application) UseApiFinalMiddlewares(opts myHTTP.Options) *Application {
	return a.Use(a.composer.FinalChain(opts)...)
}

// UseCompression appends the gzip layer.
func (a *Application) UseCompression() *Application {
	return a.Use(myHTTP.Gzip())
}

// TrustProxy sets which peers may report the client address and protocol
// through X-Forwarded-* headers. An empty value restores the default
// loopback trust.
func (a *Application) TrustProxy(value string) error {
	if value == "" {
		value = trustproxy.DefaultValue
	}

	set, err := trustproxy.Parse(value)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.trust = set
	a.mu.Unlock()
	return nil
}
