package routing

import (
	"path"
	"strings"
)

// Normalized is a request path with any leading locale segment removed.
type Normalized struct {
	Locale   Locale
	Path     string
	Explicit bool
}

// Localize returns the public path of key for locale. The default locale is
// served without a prefix; every other locale is prefixed with "/<locale>".
func (r *Registry) Localize(key RouteKey, locale Locale) string {
	return r.prefix(locale, r.Path(key, locale))
}

// LocalizeWith is Localize for routes with dynamic segments.
func (r *Registry) LocalizeWith(key RouteKey, locale Locale, params map[string]string) (string, error) {
	p, err := fill(r.Path(key, locale), params)
	if err != nil {
		return "", err
	}
	return r.prefix(locale, p), nil
}

// InternalWith returns the canonical upstream path of key with dynamic
// segments filled.
func (r *Registry) InternalWith(key RouteKey, params map[string]string) (string, error) {
	return fill(r.Internal(key), params)
}

// PrefixPath applies the locale prefix policy to an arbitrary unprefixed path.
// The path is canonicalized first, so the result is always site-relative.
func (r *Registry) PrefixPath(locale Locale, p string) string {
	return r.prefix(locale, CleanPath(p))
}

func (r *Registry) prefix(locale Locale, path string) string {
	if locale == r.defaultLocale {
		return path
	}
	if path == "/" || path == "" {
		return "/" + string(locale)
	}
	return "/" + string(locale) + path
}

// CleanPath returns the canonical form of a request path. Backslashes read as
// slashes, repeated slashes collapse and dot segments are resolved against the
// root. A trailing slash is kept. The result always starts with exactly one "/".
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	trailing := strings.HasSuffix(p, "/")
	p = path.Clean("/" + p)
	if trailing && p != "/" {
		p += "/"
	}
	return p
}

// Normalize canonicalizes rawPath with CleanPath and splits an explicit locale
// prefix off it. Without a supported prefix the whole path is returned with the
// default locale.
func (r *Registry) Normalize(rawPath string) Normalized {
	rawPath = CleanPath(rawPath)

	first, rest, _ := strings.Cut(rawPath[1:], "/")
	if first != "" && r.IsSupported(Locale(first)) {
		path := "/" + rest
		return Normalized{Locale: Locale(first), Path: path, Explicit: true}
	}

	return Normalized{Locale: r.defaultLocale, Path: rawPath}
}
