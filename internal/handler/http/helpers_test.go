package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/trustproxy"
)

// fixedID always yields the same request id.
type fixedID string

func (f fixedID) Generate() string { return string(f) }

// newTestComposer builds a Composer logging into buf with fixed request ids.
func newTestComposer(cfg Config, buf *bytes.Buffer) *Composer {
	log := logger.Nop()
	if buf != nil {
		log = logger.New("test", logger.Options{Output: buf})
	}
	return NewComposer(cfg, log).WithIDGenerator(fixedID("req-1"))
}

// serveChain runs c the way the application does: the writer is wrapped,
// the request carries a State and a trust set, and finishers run at the end.
func serveChain(c chain.Chain, r *http.Request) (*httptest.ResponseRecorder, chain.Result) {
	rec := httptest.NewRecorder()
	s := chain.NewState()

	trust, _ := trustproxy.Parse(trustproxy.DefaultValue)
	ctx := trustproxy.WithSet(chain.WithState(r.Context(), s), trust)

	res := c.Run(NewResponseWriter(rec), r.WithContext(ctx), nil)
	s.Finish()
	return rec, res
}

// respond is a terminal step writing status and body.
func respond(status int, body string) chain.Middleware {
	return chain.Step("respond", func(w http.ResponseWriter, _ *http.Request) chain.Outcome {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return chain.Respond()
	})
}

func decodeJSON(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func mustRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r
}
