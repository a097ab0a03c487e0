package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

const contentSecurityPolicy = "default-src 'self';base-uri 'self';font-src 'self' https: data:;form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';upgrade-insecure-requests"

var secureHeaders = secure.New(secure.Options{
	STSSeconds:              15552000,
	STSIncludeSubdomains:    true,
	ForceSTSHeader:          true,
	CustomFrameOptionsValue: "SAMEORIGIN",
	ContentTypeNosniff:      true,
	BrowserXssFilter:        true,
	CustomBrowserXssValue:   "0",
	ContentSecurityPolicy:   contentSecurityPolicy,
	ReferrerPolicy:          "no-referrer",
})

// headers secure.Options has no field for
var isolationHeaders = map[string]string{
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Origin-Agent-Cluster":              "?1",
	"X-DNS-Prefetch-Control":            "off",
	"X-Download-Options":                "noopen",
	"X-Permitted-Cross-Domain-Policies": "none",
}

// SecureHeaders sets conservative browser security headers on every response.
func SecureHeaders(next http.Handler) http.Handler {
	return secureHeaders.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range isolationHeaders {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")
		next.ServeHTTP(w, r)
	}))
}
