package http

import (
	"net/http"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/httperr"
	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/utils"
)

// Render writes err as a JSON error response carrying the request id.
//
// When the headers are already sent nothing is written and the normalized
// error is returned as a failure for an outer handler. In both cases the
// error is recorded on the request State for the logger slot.
func Render(w http.ResponseWriter, r *http.Request, err error) chain.Outcome {
	he := httperr.Normalize(err)
	if id, ok := utils.GetRequestIDFromContext(r.Context()); ok {
		he = he.WithRequestID(id)
	}

	if s := chain.StateFrom(r.Context()); s != nil {
		s.SetError(he)
	}

	if HeadersSent(w) {
		return chain.Fail(he)
	}

	for k, v := range he.Headers() {
		w.Header().Set(k, v)
	}
	if _, werr := utils.WriteJSON(w, he.Payload(), he.StatusCode()); werr != nil {
		logger.FromRequest(r).Error().Err(werr).Msg("failed to write error response")
	}
	return chain.Respond()
}
