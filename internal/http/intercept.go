package httpx

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Intercept composes the session guard and the locale stage in front of next.
//
// A guard redirect ends the request before locale routing runs. Otherwise the
// locale stage result absorbs the guard's cookies and X-Edge-* headers and
// either redirects or forwards the rewritten request to next.
func Intercept(guard *SessionGuard, stage *LocaleStage, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gres, err := guard.Check(r)
			if err != nil {
				logger.Error("session guard failed",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				ServerError(w, r)
				return
			}
			if gres.Redirected() {
				gres.Write(w)
				return
			}

			res := stage.Handle(r)
			res.MergeFrom(gres)
			if res.Redirected() {
				res.Write(w)
				return
			}

			res.Apply(w)
			next.ServeHTTP(w, rewriteRequest(r, res))
		})
	}
}

// rewriteRequest returns a copy of r addressed to res.Rewrite and carrying
// only the pipeline metadata headers res computed.
func rewriteRequest(r *http.Request, res *Result) *http.Request {
	out := r.Clone(r.Context())
	if res.Rewrite != "" {
		out.URL.Path = res.Rewrite
		out.URL.RawPath = ""
	}
	deleteEdgeHeaders(out.Header)
	for name, values := range res.Header {
		if strings.HasPrefix(name, EdgeHeaderPrefix) {
			out.Header[name] = append([]string(nil), values...)
		}
	}
	return out
}
