package http

import (
	"net/http"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/httperr"
)

// NotFound fails every request that reaches it with a 404.
func NotFound() chain.Middleware {
	return chain.Step(string(SlotNotFound), func(http.ResponseWriter, *http.Request) chain.Outcome {
		return chain.Fail(httperr.NotFound())
	})
}

// ValidationErrors turns validation failures into 422 errors and forwards
// every other error unchanged.
func ValidationErrors() chain.Middleware {
	return chain.Recover(string(SlotValidationErrors), func(err error, _ http.ResponseWriter, _ *http.Request) chain.Outcome {
		if httperr.KindOf(err) == httperr.KindValidation {
			return chain.Fail(httperr.Normalize(err))
		}
		return chain.Fail(err)
	})
}

// Errors renders any error as a JSON response with [Render].
func Errors() chain.Middleware {
	return chain.Recover(string(SlotErrors), func(err error, w http.ResponseWriter, r *http.Request) chain.Outcome {
		return Render(w, r, err)
	})
}
