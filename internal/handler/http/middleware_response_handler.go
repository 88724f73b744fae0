// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "net/http"

// ResponseWriter is a thin decorator around [http.ResponseWriter] that
// records what has been written so later steps can tell whether the
// response is already committed.
//
// WriteHeader is forwarded to the underlying writer exactly once; later
// calls are ignored, mirroring the [http.ResponseWriter] contract.
type ResponseWriter struct {
	http.ResponseWriter

	// status is the HTTP status code recorded on the first WriteHeader call.
	status int

	// wroteHeader reports whether WriteHeader has already been called.
	wroteHeader bool

	// size is the running total of bytes written to the response body.
	size int
}

// NewResponseWriter wraps w. An existing *ResponseWriter is returned as is.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w}
}

// WriteHeader records the status code and forwards it once.
func (w *ResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write implicitly sends a 200 header when none was written, then forwards
// b and accumulates the body size.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Flush sends buffered data to the client when the underlying writer
// supports it.
func (w *ResponseWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Status returns the written status code, 0 before WriteHeader.
func (w *ResponseWriter) Status() int {
	return w.status
}

// Size returns the number of body bytes written.
func (w *ResponseWriter) Size() int {
	return w.size
}

// HeadersSent reports whether the status line has been written.
func (w *ResponseWriter) HeadersSent() bool {
	return w.wroteHeader
}

// HeadersSent reports whether w, or a writer it wraps, already sent the
// response headers. Writers that cannot tell are treated as uncommitted.
func HeadersSent(w http.ResponseWriter) bool {
	for w != nil {
		if hs, ok := w.(interface{ HeadersSent() bool }); ok {
			return hs.HeadersSent()
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return false
		}
		w = u.Unwrap()
	}
	return false
}

// StatusOf returns the status recorded by the first *ResponseWriter found
// in w's wrapping chain, 0 when none.
func StatusOf(w http.ResponseWriter) int {
	for w != nil {
		if rw, ok := w.(*ResponseWriter); ok {
			return rw.Status()
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return 0
		}
		w = u.Unwrap()
	}
	return 0
}
