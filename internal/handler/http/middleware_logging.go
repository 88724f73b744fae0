package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/httperr"
	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/trustproxy"
)

// Headers kept when requests and responses are logged. Everything else,
// Authorization and cookies included, is dropped.
var (
	loggedRequestHeaders  = []string{"host", "origin", "user-agent"}
	loggedResponseHeaders = []string{
		"access-control-allow-origin",
		"access-control-allow-credentials",
		"access-control-allow-methods",
		"access-control-allow-headers",
		"access-control-expose-headers",
		"access-control-max-age",
		"content-type",
		"x-robots-tag",
	}
)

// Logger assigns the request id and writes one entry per request once the
// response is complete. Completion entries need the request State.
func (c *Composer) Logger() chain.Middleware {
	return chain.Step(string(SlotLogger), func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		start := time.Now()
		r, log, id := c.withRequestID(w, r)

		if s := chain.StateFrom(r.Context()); s != nil {
			s.OnFinish(func() {
				logCompletion(log, id, w, r, s.Error(), time.Since(start))
			})
		}

		return chain.NextWith(nil, r)
	})
}

func logCompletion(log *logger.Logger, id string, w http.ResponseWriter, r *http.Request, err error, took time.Duration) {
	status := StatusOf(w)
	if status == 0 {
		status = http.StatusOK
	}

	var ev *zerolog.Event
	msg := "request completed"
	switch {
	case status >= http.StatusInternalServerError:
		ev, msg = log.Error(), "request errored"
	case status >= http.StatusBadRequest:
		ev = log.Warn()
	default:
		ev = log.Info()
	}

	ev = ev.Dict("req", serializeRequest(r, id)).
		Dict("res", serializeResponse(w, status))
	if err != nil {
		ev = ev.Dict("err", serializeError(err))
	}
	ev.Int64("responseTime", took.Milliseconds()).Msg(msg)
}

func serializeRequest(r *http.Request, id string) *zerolog.Event {
	headers := zerolog.Dict()
	for _, name := range loggedRequestHeaders {
		v := r.Header.Get(name)
		if name == "host" {
			v = r.Host
		}
		if v != "" {
			headers = headers.Str(name, v)
		}
	}

	return zerolog.Dict().
		Str("id", id).
		Str("method", r.Method).
		Str("url", r.URL.RequestURI()).
		Str("remoteAddress", trustproxy.ClientIP(r)).
		Dict("headers", headers)
}

func serializeResponse(w http.ResponseWriter, status int) *zerolog.Event {
	headers := zerolog.Dict()
	for _, name := range loggedResponseHeaders {
		if v := w.Header().Get(name); v != "" {
			headers = headers.Str(name, v)
		}
	}

	return zerolog.Dict().
		Int("statusCode", status).
		Dict("headers", headers)
}

// serializeError renders type and message; the stack is kept for server
// errors only.
func serializeError(err error) *zerolog.Event {
	d := zerolog.Dict()

	var he *httperr.Error
	if errors.As(err, &he) {
		d = d.Str("type", he.Kind().String()).Int("statusCode", he.StatusCode())
	} else {
		d = d.Str("type", httperr.KindOf(err).String())
	}
	d = d.Str("message", strings.TrimSpace(err.Error()))

	if httperr.Normalize(err).IsServer() {
		if st := pkgerrors.MarshalStack(err); st != nil {
			d = d.Interface("stack", st)
		}
	}
	return d
}
