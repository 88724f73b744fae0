package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/utils"
)

const requestIDHeader = "X-Request-ID"

// withRequestID resolves the request id (incoming X-Request-ID or a new
// one), echoes it in the response and attaches a request-scoped logger
// carrying it. It returns the derived request and its logger.
func (c *Composer) withRequestID(w http.ResponseWriter, r *http.Request) (*http.Request, *logger.Logger, string) {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = c.ids.Generate()
	}
	w.Header().Set(requestIDHeader, id)

	l := c.logger.GetChildLogger()
	l.UpdateContext(func(zc zerolog.Context) zerolog.Context {
		return zc.Str("req_id", id)
	})

	ctx := utils.WithRequestID(l.WithContext(r.Context()), id)
	return r.WithContext(ctx), l, id
}
