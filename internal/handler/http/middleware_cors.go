package http

import (
	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/cors"
)

// EnableCORS builds the CORS slot from the configured whitelist. In
// production an unset whitelist logs a warning on every call.
func (c *Composer) EnableCORS() chain.Middleware {
	if c.IsProduction() && c.cfg.CORSOrigin.IsWildcard() {
		c.logger.Warn().Msg("CORS requests are allowed from all origins")
	}

	return chain.FromHTTP(string(SlotCORS), cors.New(c.cfg.CORSOrigin))
}
