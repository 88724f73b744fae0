package http

import (
	"net/http"

	"github.com/unrolled/secure"

	"github.com/MKhiriev/apitools/internal/chain"
)

const defaultCSP = "default-src 'self';base-uri 'self';font-src 'self' https: data:;" +
	"form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';" +
	"script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';" +
	"upgrade-insecure-requests"

// extraSecurityHeaders are set on every response next to the secure ones.
var extraSecurityHeaders = map[string]string{
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Origin-Agent-Cluster":              "?1",
	"X-DNS-Prefetch-Control":            "off",
	"X-Download-Options":                "noopen",
	"X-Permitted-Cross-Domain-Policies": "none",
}

// Helmet sets the default security headers.
func (c *Composer) Helmet() chain.Middleware {
	s := secure.New(secure.Options{
		STSSeconds:              15552000,
		STSIncludeSubdomains:    true,
		ForceSTSHeader:          true,
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		CustomBrowserXssValue:   "0",
		ContentSecurityPolicy:   defaultCSP,
		ReferrerPolicy:          "no-referrer",
	})

	return chain.Step(string(SlotHelmet), func(w http.ResponseWriter, r *http.Request) chain.Outcome {
		if err := s.Process(w, r); err != nil {
			return chain.Fail(err)
		}

		h := w.Header()
		for k, v := range extraSecurityHeaders {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")

		return chain.Next()
	})
}
