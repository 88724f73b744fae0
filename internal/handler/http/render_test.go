package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/httperr"
)

func failWith(err error) chain.Middleware {
	return chain.Step("fail", func(http.ResponseWriter, *http.Request) chain.Outcome {
		return chain.Fail(err)
	})
}

func TestFinalChain_Responses(t *testing.T) {
	tests := []struct {
		name       string
		chain      func(c *Composer) chain.Chain
		wantStatus int
		wantBody   string
		wantHeader map[string]string
	}{
		{
			name: "unmatched request is 404",
			chain: func(c *Composer) chain.Chain {
				return chain.Chain{c.Logger()}.Then(c.FinalChain(nil)...)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"statusCode":404,"error":"Not Found","message":"Not Found","id":"req-1"}`,
		},
		{
			name: "plain error is masked 500",
			chain: func(c *Composer) chain.Chain {
				return chain.Chain{c.Logger(), failWith(errors.New("db password leaked"))}.Then(c.FinalChain(nil)...)
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"statusCode":500,"error":"Internal Server Error","message":"An internal server error occurred","id":"req-1"}`,
		},
		{
			name: "client error keeps message and headers",
			chain: func(c *Composer) chain.Chain {
				return chain.Chain{c.Logger(), failWith(httperr.Unauthorized("token expired", "Bearer"))}.Then(c.FinalChain(nil)...)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"statusCode":401,"error":"Unauthorized","message":"token expired","id":"req-1"}`,
			wantHeader: map[string]string{"WWW-Authenticate": "Bearer"},
		},
		{
			name: "validation error is 422 with detail",
			chain: func(c *Composer) chain.Chain {
				ve := &httperr.ValidationError{Errors: []httperr.FieldError{
					{Property: "body", DataPath: ".name", Keyword: "type"},
				}}
				return chain.Chain{failWith(ve)}.Then(c.FinalChain(nil)...)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"statusCode":422,"error":"Unprocessable Entity","message":"Validation Error","validationErrors":{"body.name":["type"]}}`,
		},
		{
			name: "without logger no id is rendered",
			chain: func(c *Composer) chain.Chain {
				return c.FinalChain(nil)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"statusCode":404,"error":"Not Found","message":"Not Found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestComposer(Config{}, nil)

			rec, res := serveChain(tt.chain(c), mustRequest(t, http.MethodGet, "/missing", ""))

			assert.True(t, res.Done)
			assert.NoError(t, res.Err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			for k, v := range tt.wantHeader {
				assert.Equal(t, v, rec.Header().Get(k))
			}
		})
	}
}

func TestFinalChain_ErrorsDisabledLeavesFailure(t *testing.T) {
	c := newTestComposer(Config{}, nil)

	rec, res := serveChain(c.FinalChain(Options{SlotErrors: Disable()}), mustRequest(t, http.MethodGet, "/", ""))

	require.Error(t, res.Err)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(res.Err))
	assert.Empty(t, rec.Body.String())
}

func TestValidationErrors_ForwardsOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	out := ValidationErrors().Recover(boom, nil, mustRequest(t, http.MethodGet, "/", ""))

	require.True(t, out.IsFail())
	assert.Same(t, boom, out.Err())
}

func TestRender_HeadersAlreadySent(t *testing.T) {
	partial := chain.Step("partial", func(w http.ResponseWriter, _ *http.Request) chain.Outcome {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		return chain.Fail(errors.New("late failure"))
	})

	rec, res := serveChain(chain.Chain{partial, Errors()}, mustRequest(t, http.MethodGet, "/", ""))

	require.Error(t, res.Err)
	var he *httperr.Error
	require.ErrorAs(t, res.Err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode())
	assert.Equal(t, "partial", rec.Body.String())
}

func TestRender_RecordsErrorOnState(t *testing.T) {
	r := mustRequest(t, http.MethodGet, "/", "")
	s := chain.NewState()
	r = r.WithContext(chain.WithState(r.Context(), s))

	out := Render(NewResponseWriter(httptest.NewRecorder()), r, httperr.Forbidden("no"))

	assert.True(t, out.IsRespond())
	var he *httperr.Error
	require.ErrorAs(t, s.Error(), &he)
	assert.Equal(t, http.StatusForbidden, he.StatusCode())
}
