package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/apitools/internal/chain"
)

// RequestObserver records finished requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// Metrics reports every finished request to obs. The route label is the chi
// route pattern, so request paths never become label values.
func Metrics(obs RequestObserver) chain.Middleware {
	return chain.Step("metrics", func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		s := chain.StateFrom(r.Context())
		if s == nil {
			return chain.Next()
		}

		start := time.Now()
		s.OnFinish(func() {
			route := unmatchedRoute
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			status := StatusOf(w)
			if status == 0 {
				status = http.StatusOK
			}
			obs.ObserveRequest(r.Method, route, status, time.Since(start))
		})
		return chain.Next()
	})
}
