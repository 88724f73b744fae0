package chain

import (
	"context"
	"net/http"
)

type captureKey struct{}

type capture struct {
	called bool
	w      http.ResponseWriter
	r      *http.Request
}

// FromHTTP adapts a standard net/http middleware into a step.
//
// The middleware is built once. When it calls its next handler the chain
// continues with the writer and request it passed; when it returns without
// calling next the request is answered, unless it stored a failure with
// [Abort]. Work done after next returns sees only the adapter, so this is
// meant for middlewares that act before delegating.
func FromHTTP(name string, mw func(http.Handler) http.Handler) Middleware {
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := r.Context().Value(captureKey{}).(*capture); ok {
			c.called = true
			c.w, c.r = w, r
		}
	}))

	return Step(name, func(w http.ResponseWriter, r *http.Request) Outcome {
		c := &capture{}
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), captureKey{}, c)))

		if c.called {
			return NextWith(c.w, c.r)
		}
		if s := StateFrom(r.Context()); s != nil {
			if err := s.takeAbort(); err != nil {
				return Fail(err)
			}
		}
		return Respond()
	})
}
