package httpx

import (
	"net/http"

	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// LocaleStage canonicalizes the locale prefix of a request and computes the
// upstream rewrite. The default locale is served without a prefix; other
// locales always carry one.
type LocaleStage struct {
	registry     *routing.Registry
	metrics      *Metrics
	origin       string
	cookieDomain string
	secure       bool
}

// NewLocaleStage builds the locale stage. cookieDomain and secure apply to the
// persisted locale cookie.
func NewLocaleStage(reg *routing.Registry, m *Metrics, origin, cookieDomain string, secure bool) *LocaleStage {
	return &LocaleStage{
		registry:     reg,
		metrics:      m,
		origin:       origin,
		cookieDomain: cookieDomain,
		secure:       secure,
	}
}

// Handle returns a 307 redirect when the prefix is not canonical, otherwise a
// result with the rewrite path, X-Edge-* metadata and the locale cookie.
func (s *LocaleStage) Handle(r *http.Request) *Result {
	res := NewResult()
	reg := s.registry
	def := reg.DefaultLocale()
	norm := reg.Normalize(r.URL.Path)

	// "/es/vehiculos" is served as "/vehiculos".
	if norm.Explicit && norm.Locale == def {
		res.Redirect(http.StatusTemporaryRedirect, s.origin+withQuery(norm.Path, r.URL.RawQuery))
		s.metrics.locale("redirect", def.String())
		return res
	}

	locale := norm.Locale
	if !norm.Explicit {
		if preferred := reg.ResolveRequest(r); preferred != def {
			res.Redirect(http.StatusTemporaryRedirect, s.origin+withQuery(s.translate(norm.Path, preferred), r.URL.RawQuery))
			s.metrics.locale("redirect", preferred.String())
			return res
		}
	}

	rewrite := ""
	if key, params, ok := reg.Match(locale, norm.Path); ok {
		if internal, err := reg.InternalWith(key, params); err == nil {
			rewrite = join(locale, internal)
			res.Header.Set(HeaderEdgeRoute, string(key))
		}
	}
	if rewrite == "" {
		rewrite = join(locale, norm.Path)
	}

	res.Rewrite = rewrite
	res.Header.Set(HeaderEdgeLocale, locale.String())
	res.Header.Set(HeaderEdgeRewrite, rewrite)
	res.Header.Set(HeaderContentLanguage, locale.Tag().String())

	if current, err := r.Cookie(routing.LocaleCookie); err != nil || current.Value != locale.String() {
		res.SetCookie(&http.Cookie{
			Name:     routing.LocaleCookie,
			Value:    locale.String(),
			Path:     "/",
			Domain:   s.cookieDomain,
			MaxAge:   localeCookieMaxAge,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s.metrics.locale("rewrite", locale.String())
	return res
}

// translate maps a default-locale path to its public path in locale. Paths
// that are not registered keep their spelling under the locale prefix.
func (s *LocaleStage) translate(path string, locale routing.Locale) string {
	reg := s.registry
	if key, params, ok := reg.Match(reg.DefaultLocale(), path); ok {
		if p, err := reg.LocalizeWith(key, locale, params); err == nil {
			return p
		}
	}
	return reg.PrefixPath(locale, path)
}

// join builds the upstream path "/<locale><path>".
func join(locale routing.Locale, path string) string {
	if path == "/" || path == "" {
		return "/" + locale.String()
	}
	return "/" + locale.String() + path
}

func withQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
