package cors

import (
	"net/http"

	chicors "github.com/go-chi/cors"
)

var (
	defaultMethods = []string{
		http.MethodGet, http.MethodHead, http.MethodPut,
		http.MethodPatch, http.MethodPost, http.MethodDelete,
	}
	defaultExposed = []string{"X-Request-ID"}
)

// New returns the CORS middleware for origin.
//
// The disabled specification yields a pass-through middleware. The empty
// literal never emits Access-Control-Allow-Origin.
func New(origin Origin) func(http.Handler) http.Handler {
	if origin.IsDisabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	opts := chicors.Options{
		AllowedMethods: defaultMethods,
		AllowedHeaders: []string{"*"},
		ExposedHeaders: defaultExposed,
		MaxAge:         600,
	}

	if origin.IsWildcard() {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowOriginFunc = func(_ *http.Request, o string) bool {
			return origin.Allows(o)
		}
	}

	return chicors.Handler(opts)
}
