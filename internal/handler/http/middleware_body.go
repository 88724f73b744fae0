package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/httperr"
	"github.com/MKhiriev/apitools/internal/utils"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// JSON parses application/json bodies. The decoded value is available with
// [Body] and r.Body is rewound. Only objects and arrays are accepted; an
// empty body decodes to an empty object.
func (c *Composer) JSON() chain.Middleware {
	return chain.Step(string(SlotJSON), func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		if !hasMediaType(r, contentTypeJSON) {
			return chain.Next()
		}

		raw, err := readBody(r, c.cfg.BodyLimit)
		if err != nil {
			return chain.Fail(err)
		}

		var body any = map[string]any{}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 {
			if trimmed[0] != '{' && trimmed[0] != '[' {
				return chain.Fail(httperr.BadRequest("Unexpected token in JSON body", httperr.WithCause(ErrNotObjectOrArray)))
			}
			if err := json.Unmarshal(trimmed, &body); err != nil {
				return chain.Fail(httperr.BadRequest("Invalid JSON body", httperr.WithCause(fmt.Errorf("%w: %w", ErrMalformedBody, err))))
			}
		}

		return chain.NextWith(nil, withParsedBody(r, raw, body))
	})
}

// URLEncoded parses application/x-www-form-urlencoded bodies. Single values
// are exposed as strings and repeated keys as lists through [Body]; r.PostForm
// is populated and r.Body is rewound.
func (c *Composer) URLEncoded() chain.Middleware {
	return chain.Step(string(SlotURLEncoded), func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		if !hasMediaType(r, contentTypeForm) {
			return chain.Next()
		}

		raw, err := readBody(r, c.cfg.BodyLimit)
		if err != nil {
			return chain.Fail(err)
		}

		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return chain.Fail(httperr.BadRequest("Invalid form body", httperr.WithCause(fmt.Errorf("%w: %w", ErrMalformedBody, err))))
		}

		body := make(map[string]any, len(values))
		for k, vs := range values {
			if len(vs) == 1 {
				body[k] = vs[0]
				continue
			}
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = v
			}
			body[k] = list
		}

		r = withParsedBody(r, raw, body)
		r.PostForm = values
		return chain.NextWith(nil, r)
	})
}

// Body returns the value decoded by the json or urlencoded slot.
func Body(r *http.Request) (any, bool) {
	return utils.GetBodyFromContext(r.Context())
}

func hasMediaType(r *http.Request, want string) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	if _, ok := utils.GetBodyFromContext(r.Context()); ok {
		return false
	}

	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mt, want)
}

// readBody reads at most limit bytes. Larger bodies are 413 errors.
func readBody(r *http.Request, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, httperr.BadRequest("Failed to read request body", httperr.WithCause(err))
	}
	if int64(len(raw)) > limit {
		return nil, httperr.EntityTooLarge("Request body is too large", httperr.WithCause(ErrBodyTooLarge))
	}
	return raw, nil
}

func withParsedBody(r *http.Request, raw []byte, body any) *http.Request {
	r = r.WithContext(utils.WithBody(r.Context(), body))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	r.ContentLength = int64(len(raw))
	return r
}
