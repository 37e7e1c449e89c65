package httpx

import (
	"net/http"
	"regexp"

	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// servicePattern matches the upstream's API and build assets and the edge's
// own service endpoints.
var servicePattern = regexp.MustCompile(`^/(api|_next|static|assets|healthz|metrics)(/|$)`)

// filePattern matches any path whose last segment has an extension.
var filePattern = regexp.MustCompile(`/[^/]*\.[A-Za-z0-9]+$`)

// Bypassed reports whether path skips the pipeline. Files under a protected
// prefix, in any locale, stay in the pipeline so the guard sees them.
func Bypassed(reg *routing.Registry, path string) bool {
	if servicePattern.MatchString(path) {
		return true
	}
	return filePattern.MatchString(path) && !routing.IsProtected(reg.Normalize(path).Path)
}

// Matcher runs pipeline for matched paths and sends everything else straight
// to next.
func Matcher(reg *routing.Registry, pipeline func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		piped := pipeline(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Bypassed(reg, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			piped.ServeHTTP(w, r)
		})
	}
}
