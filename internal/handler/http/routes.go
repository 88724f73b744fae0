package http

import (
	"net/http"

	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/utils"
)

// DefaultGreeting is the body of the root route.
const DefaultGreeting = "Hello!"

// Healthy answers liveness checks with the JSON literal true.
func Healthy(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.WriteJSON(w, true, http.StatusOK); err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("failed to write health response")
	}
}

// Root returns a handler answering with greeting as text/plain. An empty
// greeting uses DefaultGreeting.
func Root(greeting string) http.HandlerFunc {
	if greeting == "" {
		greeting = DefaultGreeting
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := utils.WriteText(w, greeting, http.StatusOK); err != nil {
			logger.FromRequest(r).Error().Err(err).Msg("failed to write root response")
		}
	}
}
