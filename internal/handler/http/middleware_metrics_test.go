package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/apitools/internal/chain"
)

type observation struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	got []observation
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.got = append(f.got, observation{method, route, status})
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	obs := &fakeObserver{}

	serveChain(chain.Chain{Metrics(obs), respond(http.StatusTeapot, "")}, mustRequest(t, http.MethodGet, "/x", ""))

	require.Len(t, obs.got, 1)
	assert.Equal(t, observation{http.MethodGet, "unmatched", http.StatusTeapot}, obs.got[0])
}

func TestMetrics_RoutePattern(t *testing.T) {
	obs := &fakeObserver{}
	router := chi.NewRouter()
	router.Get("/users/{id}", func(w http.ResponseWriter, _ *http.Request) {})

	route := chain.FromHTTP("router", func(http.Handler) http.Handler { return router })

	r := mustRequest(t, http.MethodGet, "/users/42", "")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, chi.NewRouteContext()))
	serveChain(chain.Chain{Metrics(obs), route}, r)

	require.Len(t, obs.got, 1)
	assert.Equal(t, observation{http.MethodGet, "/users/{id}", http.StatusOK}, obs.got[0])
}

func TestMetrics_WithoutState(t *testing.T) {
	obs := &fakeObserver{}
	out := Metrics(obs).Step(httptest.NewRecorder(), mustRequest(t, http.MethodGet, "/", ""))

	assert.True(t, out.IsNext())
	assert.Empty(t, obs.got)
}
