package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/trustproxy"
)

const defaultHTTPSPort = 443

// ForceHTTPS redirects insecure production requests to
// https://<host>[:port]<path and query> with a 301. Outside production, and for
// requests that are already secure, it does nothing. port <= 0 means 443.
//
// The Host header is used verbatim. It is not validated against an allow
// list, so a forged Host produces a redirect to that host.
func (c *Composer) ForceHTTPS(port int) chain.Middleware {
	if port <= 0 {
		port = defaultHTTPSPort
	}

	suffix := ""
	if port != defaultHTTPSPort {
		suffix = ":" + strconv.Itoa(port)
	}

	return chain.Step(string(SlotForceHTTPS), func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		if !c.IsProduction() || trustproxy.IsSecure(r) {
			return chain.Next()
		}

		w.Header().Set("Location", "https://"+r.Host+suffix+r.URL.RequestURI())
		w.WriteHeader(http.StatusMovedPermanently)
		return chain.Respond()
	})
}
