package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// stripEdgeHeaders removes every inbound X-Edge-* header. Those headers are
// set only by the pipeline; a client-supplied copy must never reach upstream,
// including on paths the matcher bypasses.
func stripEdgeHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deleteEdgeHeaders(r.Header)
		next.ServeHTTP(w, r)
	})
}

func deleteEdgeHeaders(h http.Header) {
	for name := range h {
		if strings.HasPrefix(http.CanonicalHeaderKey(name), EdgeHeaderPrefix) {
			delete(h, name)
		}
	}
}

// canonicalPath answers a 308 to the cleaned path when the request path has
// repeated slashes, dot segments or backslashes, so the matcher, the guard and
// the locale stage all see one spelling of every path.
func canonicalPath(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "*" {
				next.ServeHTTP(w, r)
				return
			}
			clean := routing.CleanPath(r.URL.Path)
			if clean == r.URL.Path {
				next.ServeHTTP(w, r)
				return
			}

			target := url.URL{Path: clean, RawQuery: r.URL.RawQuery}
			res := NewResult()
			res.Redirect(http.StatusPermanentRedirect, origin+target.String())
			res.Write(w)
		})
	}
}
