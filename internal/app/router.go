package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/MKhiriev/apitools/internal/chain"
	myHTTP "github.com/MKhiriev/apitools/internal/handler/http"
	"github.com/MKhiriev/apitools/internal/httperr"
	"github.com/MKhiriev/apitools/internal/metrics"
	"github.com/MKhiriev/apitools/internal/trustproxy"
)

type routeResultKey struct{}

// routeResult carries the outcome of a route chain back to the router
// layer.
type routeResult struct {
	unmatched bool
	err       error
}

func markUnmatched(_ http.ResponseWriter, r *http.Request) {
	if rr, ok := r.Context().Value(routeResultKey{}).(*routeResult); ok {
		rr.unmatched = true
	}
}

// serveRouter is the router layer. Unmatched requests and routes that
// neither respond nor fail continue with the next layer.
func (a *Application) serveRouter(w http.ResponseWriter, r *http.Request) chain.Outcome {
	rr := &routeResult{}
	a.router.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeResultKey{}, rr)))

	switch {
	case rr.err != nil:
		return chain.Fail(rr.err)
	case rr.unmatched:
		return chain.Next()
	default:
		return chain.Respond()
	}
}

func routeHandler(steps chain.Chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := steps.Run(w, r, nil)

		rr, ok := r.Context().Value(routeResultKey{}).(*routeResult)
		if !ok {
			return
		}
		switch {
		case res.Err != nil:
			rr.err = res.Err
		case !res.Done:
			rr.unmatched = true
		}
	}
}

// Method registers steps for method and pattern. The router layer is
// inserted at the first registration.
func (a *Application) Method(method, pattern string, steps ...chain.Middleware) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.mounted {
		a.mounted = true
		a.layers = append(a.layers, chain.Step("router", a.serveRouter))
	}
	a.router.Method(method, pattern, routeHandler(steps))
	return a
}

// Get registers a GET route.
func (a *Application) Get(pattern string, steps ...chain.Middleware) *Application {
	return a.Method(http.MethodGet, pattern, steps...)
}

// Post registers a POST route.
func (a *Application) Post(pattern string, steps ...chain.Middleware) *Application {
	return a.Method(http.MethodPost, pattern, steps...)
}

// Put registers a PUT route.
func (a *Application) Put(pattern string, steps ...chain.Middleware) *Application {
	return a.Method(http.MethodPut, pattern, steps...)
}

// Patch registers a PATCH route.
func (a *Application) Patch(pattern string, steps ...chain.Middleware) *Application {
	return a.Method(http.MethodPatch, pattern, steps...)
}

// Delete registers a DELETE route.
func (a *Application) Delete(pattern string, steps ...chain.Middleware) *Application {
	return a.Method(http.MethodDelete, pattern, steps...)
}

// Wrap turns an error-returning handler into a route step. Returned errors
// and panics enter the error path.
func Wrap(fn func(w http.ResponseWriter, r *http.Request) error) chain.Middleware {
	return chain.Step("handler", chain.Handler(fn))
}

// HandlerFunc turns h into a route step that answers the request.
func HandlerFunc(h http.HandlerFunc) chain.Middleware {
	return chain.Step("handler", func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		h(w, r)
		return chain.Respond()
	})
}

// UseHealthyRoute registers GET /healthy answering true.
func (a *Application) UseHealthyRoute() *Application {
	return a.Get("/healthy", HandlerFunc(myHTTP.Healthy))
}

// UseRootRoute registers GET / answering the greeting as text.
func (a *Application) UseRootRoute() *Application {
	return a.Get("/", HandlerFunc(myHTTP.Root(a.greeting)))
}

// UseMetricsRoute starts recording request metrics and registers
// GET /metrics in the Prometheus exposition format.
func (a *Application) UseMetricsRoute() *Application {
	a.mu.Lock()
	if a.recorder == nil {
		a.recorder = metrics.NewRecorder()
	}
	rec := a.recorder
	a.mu.Unlock()

	return a.Get("/metrics", HandlerFunc(rec.Handler().ServeHTTP))
}

// UseRateLimit appends a layer limiting each client address to limit
// requests per window. Rejected requests fail with 429.
func (a *Application) UseRateLimit(limit int, window time.Duration) *Application {
	mw := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return trustproxy.ClientIP(r), nil
		}),
		httprate.WithLimitHandler(func(_ http.ResponseWriter, r *http.Request) {
			chain.Abort(r, httperr.TooManyRequests("Too many requests, please try again later"))
		}),
	)
	return a.UseHTTP("rateLimit", mw)
}
