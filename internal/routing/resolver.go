package routing

import (
	"net/http"
	"strings"
)

// LocaleCookie is the cookie the edge writes; the others are legacy names
// still honored on read.
const LocaleCookie = "site_locale"

// LocaleCookieNames are consulted in order by Resolve.
var LocaleCookieNames = []string{LocaleCookie, "NEXT_LOCALE", "lang"}

// Resolve picks the locale for a request: the first locale cookie holding a
// supported value, then Accept-Language, then the default locale.
//
// Accept-Language entries are tried in header order; quality values are
// ignored on purpose so that the observable selection stays stable.
func (r *Registry) Resolve(cookies []*http.Cookie, acceptLanguage string) Locale {
	for _, name := range LocaleCookieNames {
		for _, c := range cookies {
			if c.Name == name && r.IsSupported(Locale(c.Value)) {
				return Locale(c.Value)
			}
		}
	}

	if l, ok := r.fromAcceptLanguage(acceptLanguage); ok {
		return l
	}
	return r.defaultLocale
}

// ResolveRequest is Resolve applied to an incoming request.
func (r *Registry) ResolveRequest(req *http.Request) Locale {
	return r.Resolve(req.Cookies(), req.Header.Get("Accept-Language"))
}

func (r *Registry) fromAcceptLanguage(header string) (Locale, bool) {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		for _, l := range r.locales {
			if strings.EqualFold(tag, string(l)) {
				return l, true
			}
		}
		base, _, _ := strings.Cut(tag, "-")
		for _, l := range r.locales {
			if strings.EqualFold(base, string(l)) {
				return l, true
			}
		}
	}
	return "", false
}
