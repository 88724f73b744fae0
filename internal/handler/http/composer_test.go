package http

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/cors"
)

var (
	initialOrder = []string{"helmet", "forceHttps", "cors", "logger", "json", "urlencoded"}
	finalOrder   = []string{"notFound", "validationErrors", "errors"}
)

func TestNewComposer_Defaults(t *testing.T) {
	c := NewComposer(Config{}, nil)

	assert.Equal(t, DefaultBodyLimit, c.Config().BodyLimit)
	assert.False(t, c.IsProduction())
	assert.True(t, NewComposer(Config{Environment: EnvProduction}, nil).IsProduction())
}

func TestInitialChain_DefaultOrder(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	assert.Equal(t, initialOrder, c.InitialChain(nil).Names())
}

func TestFinalChain_DefaultOrder(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	assert.Equal(t, finalOrder, c.FinalChain(nil).Names())
}

func without(names []string, drop string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}

func TestInitialChain_DisableEachSlot(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	for _, name := range initialOrder {
		t.Run(name, func(t *testing.T) {
			got := c.InitialChain(Options{Slot(name): Disable()}).Names()
			assert.Equal(t, without(initialOrder, name), got)
		})
	}
}

func TestFinalChain_DisableEachSlot(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	for _, name := range finalOrder {
		t.Run(name, func(t *testing.T) {
			got := c.FinalChain(Options{Slot(name): Disable()}).Names()
			assert.Equal(t, without(finalOrder, name), got)
		})
	}
}

func TestFinalChain_OrderIsFixedUnderOverrides(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	custom := chain.Recover("", func(err error, _ http.ResponseWriter, _ *http.Request) chain.Outcome {
		return chain.Fail(err)
	})

	got := c.FinalChain(Options{
		SlotErrors:           Use(custom),
		SlotNotFound:         Use(chain.Step("my404", nil)),
		SlotValidationErrors: Disable(),
	}).Names()

	assert.Equal(t, []string{"my404", "errors"}, got)
}

func TestInitialChain_AllDisabled(t *testing.T) {
	opts := Options{}
	for _, name := range initialOrder {
		opts[Slot(name)] = Disable()
	}
	assert.Empty(t, newTestComposer(Config{}, nil).InitialChain(opts))
}

func TestInitialChain_OverrideReplacesDefault(t *testing.T) {
	called := false
	c := newTestComposer(Config{}, nil)
	ch := c.InitialChain(Options{
		SlotHelmet: Use(chain.Step("", func(http.ResponseWriter, *http.Request) chain.Outcome {
			called = true
			return chain.Next()
		})),
	})

	rec, _ := serveChain(ch.Then(respond(http.StatusOK, "ok")), mustRequest(t, http.MethodGet, "/", ""))

	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Content-Type-Options"), "default helmet must not run")
	assert.Equal(t, initialOrder, ch.Names())
}

func TestEnableCORS_WarningIsLazyAndRepeated(t *testing.T) {
	var buf bytes.Buffer
	c := newTestComposer(Config{Environment: EnvProduction}, &buf)

	c.InitialChain(Options{SlotCORS: Disable()})
	assert.NotContains(t, buf.String(), "CORS requests are allowed from all origins", "disabled slot must not build the default")

	c.InitialChain(nil)
	c.EnableCORS()
	assert.Equal(t, 2, strings.Count(buf.String(), "CORS requests are allowed from all origins"))
}

func TestEnableCORS_NoWarning(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"development wildcard", Config{Environment: "development"}},
		{"production with whitelist", Config{Environment: EnvProduction, CORSOrigin: cors.Literal("https://a.com")}},
		{"production with empty whitelist", Config{Environment: EnvProduction, CORSOrigin: cors.Literal("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newTestComposer(tt.cfg, &buf).EnableCORS()
			assert.Empty(t, buf.String())
		})
	}
}

func TestEnableCORS_AppliesWhitelist(t *testing.T) {
	origin, err := cors.ParseWhitelist("https://a.com", true)
	require.NoError(t, err)
	c := newTestComposer(Config{CORSOrigin: origin}, nil)

	r := mustRequest(t, http.MethodGet, "/", "")
	r.Header.Set("Origin", "https://a.com")
	rec, res := serveChain(chain.Chain{c.EnableCORS(), respond(http.StatusOK, "ok")}, r)

	assert.True(t, res.Done)
	assert.Equal(t, "https://a.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "ok", rec.Body.String())
}
