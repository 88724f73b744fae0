package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/httperr"
)

// captureBody returns a terminal step storing the parsed body and the raw
// bytes left in r.Body.
func captureBody(parsed *any, raw *string) chain.Middleware {
	return chain.Step("capture", func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		*parsed, _ = Body(r)
		b, _ := io.ReadAll(r.Body)
		*raw = string(b)
		w.WriteHeader(http.StatusOK)
		return chain.Respond()
	})
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        any
		wantStatus  int
		wantCause   error
	}{
		{
			name:        "object",
			contentType: "application/json",
			body:        `{"a":1,"b":["x"]}`,
			want:        map[string]any{"a": float64(1), "b": []any{"x"}},
		},
		{
			name:        "array with charset",
			contentType: "application/json; charset=utf-8",
			body:        `[1,2]`,
			want:        []any{float64(1), float64(2)},
		},
		{
			name:        "whitespace only is empty object",
			contentType: "application/json",
			body:        "  \n",
			want:        map[string]any{},
		},
		{
			name:        "other content type is skipped",
			contentType: "text/plain",
			body:        `{"a":1}`,
			want:        nil,
		},
		{
			name:        "scalar is rejected",
			contentType: "application/json",
			body:        `"text"`,
			wantStatus:  http.StatusBadRequest,
			wantCause:   ErrNotObjectOrArray,
		},
		{
			name:        "malformed",
			contentType: "application/json",
			body:        `{"a":`,
			wantStatus:  http.StatusBadRequest,
			wantCause:   ErrMalformedBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestComposer(Config{}, nil)
			r := mustRequest(t, http.MethodPost, "/", tt.body)
			r.Header.Set("Content-Type", tt.contentType)

			var parsed any
			var raw string
			_, res := serveChain(chain.Chain{c.JSON(), captureBody(&parsed, &raw)}, r)

			if tt.wantCause != nil {
				require.Error(t, res.Err)
				var he *httperr.Error
				require.ErrorAs(t, res.Err, &he)
				assert.Equal(t, tt.wantStatus, he.StatusCode())
				assert.True(t, errors.Is(res.Err, tt.wantCause))
				return
			}

			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, parsed)
			assert.Equal(t, tt.body, raw, "body must be rewound")
		})
	}
}

func TestJSON_BodyLimit(t *testing.T) {
	c := newTestComposer(Config{BodyLimit: 8}, nil)

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"at limit", `{"a":12}`, false},
		{"over limit", `{"a":123}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustRequest(t, http.MethodPost, "/", tt.body)
			r.Header.Set("Content-Type", "application/json")

			var parsed any
			var raw string
			_, res := serveChain(chain.Chain{c.JSON(), captureBody(&parsed, &raw)}, r)

			if !tt.wantErr {
				assert.NoError(t, res.Err)
				return
			}
			var he *httperr.Error
			require.ErrorAs(t, res.Err, &he)
			assert.Equal(t, http.StatusRequestEntityTooLarge, he.StatusCode())
			assert.ErrorIs(t, res.Err, ErrBodyTooLarge)
		})
	}
}

func TestURLEncoded(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	body := "name=ann&tag=a&tag=b"
	r := mustRequest(t, http.MethodPost, "/", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var form string
	var parsed any
	var raw string
	formCheck := chain.Step("form", func(_ http.ResponseWriter, r *http.Request) chain.Outcome {
		form = r.PostForm.Get("name")
		return chain.Next()
	})
	_, res := serveChain(chain.Chain{c.URLEncoded(), formCheck, captureBody(&parsed, &raw)}, r)

	require.NoError(t, res.Err)
	assert.Equal(t, map[string]any{"name": "ann", "tag": []any{"a", "b"}}, parsed)
	assert.Equal(t, "ann", form)
	assert.Equal(t, body, raw)
}

func TestURLEncoded_Malformed(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	r := mustRequest(t, http.MethodPost, "/", "a=%zz")
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, res := serveChain(chain.Chain{c.URLEncoded()}, r)

	var he *httperr.Error
	require.ErrorAs(t, res.Err, &he)
	assert.Equal(t, http.StatusBadRequest, he.StatusCode())
	assert.ErrorIs(t, res.Err, ErrMalformedBody)
}

func TestBodyParsers_FirstParserWins(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	r := mustRequest(t, http.MethodPost, "/", `{"a":1}`)
	r.Header.Set("Content-Type", "application/json")

	var parsed any
	var raw string
	_, res := serveChain(chain.Chain{c.JSON(), c.JSON(), c.URLEncoded(), captureBody(&parsed, &raw)}, r)

	require.NoError(t, res.Err)
	assert.Equal(t, map[string]any{"a": float64(1)}, parsed)
	assert.Equal(t, `{"a":1}`, raw)
}

func TestBodyParsers_NoBody(t *testing.T) {
	c := newTestComposer(Config{}, nil)
	r := mustRequest(t, http.MethodGet, "/", "")
	r.Header.Set("Content-Type", "application/json")

	var parsed any
	var raw string
	_, res := serveChain(chain.Chain{c.JSON(), captureBody(&parsed, &raw)}, r)

	require.NoError(t, res.Err)
	assert.Nil(t, parsed)
	assert.Empty(t, strings.TrimSpace(raw))
}
