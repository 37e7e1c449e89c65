// Package routing holds the localized pathname table and the pure functions
// that resolve, localize and classify request paths against it.
//
// A Registry is built once at process start and never mutated afterwards, so it
// is shared by pointer across requests without locking.
package routing

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported language token such as "es" or "en".
type Locale string

// String implements fmt.Stringer.
func (l Locale) String() string { return string(l) }

// Tag returns the BCP 47 tag for the locale.
func (l Locale) Tag() language.Tag {
	return language.Make(string(l))
}

// RouteKey is the locale-independent identifier of a logical page.
type RouteKey string

// Route describes one logical page.
// Internal is the canonical path the upstream application serves the page under.
// Paths overrides the public path per locale; locales absent from Paths use Internal.
// Path templates may contain dynamic segments written as [name].
type Route struct {
	Key      RouteKey
	Internal string
	Paths    map[Locale]string
}

type compiledRoute struct {
	route    Route
	internal []string
	byLocale map[Locale][]string
}

// Registry is the immutable bidirectional route table.
type Registry struct {
	locales       []Locale
	defaultLocale Locale
	supported     map[Locale]struct{}
	routes        map[RouteKey]*compiledRoute
	order         []RouteKey
}

// NewRegistry validates the table and returns a Registry.
// Every (route, locale) pair must resolve to exactly one non-empty path.
func NewRegistry(locales []Locale, defaultLocale Locale, routes []Route) (*Registry, error) {
	if len(locales) == 0 {
		return nil, errors.New("at least one locale is required")
	}

	reg := &Registry{
		locales:       make([]Locale, 0, len(locales)),
		defaultLocale: defaultLocale,
		supported:     make(map[Locale]struct{}, len(locales)),
		routes:        make(map[RouteKey]*compiledRoute, len(routes)),
		order:         make([]RouteKey, 0, len(routes)),
	}

	for _, l := range locales {
		if l == "" || strings.ContainsAny(string(l), "/ ") {
			return nil, fmt.Errorf("invalid locale %q", l)
		}
		if _, err := language.Parse(string(l)); err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", l, err)
		}
		if _, dup := reg.supported[l]; dup {
			return nil, fmt.Errorf("duplicate locale %q", l)
		}
		reg.supported[l] = struct{}{}
		reg.locales = append(reg.locales, l)
	}

	if _, ok := reg.supported[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q is not in the supported set", defaultLocale)
	}

	for _, rt := range routes {
		if rt.Key == "" {
			return nil, errors.New("route key must not be empty")
		}
		if _, dup := reg.routes[rt.Key]; dup {
			return nil, fmt.Errorf("duplicate route key %q", rt.Key)
		}
		if err := reg.checkPath(rt.Internal); err != nil {
			return nil, fmt.Errorf("route %q internal path: %w", rt.Key, err)
		}
		for l := range rt.Paths {
			if !reg.IsSupported(l) {
				return nil, fmt.Errorf("route %q has a path for unsupported locale %q", rt.Key, l)
			}
		}

		cr := &compiledRoute{
			route:    rt,
			internal: splitPath(rt.Internal),
			byLocale: make(map[Locale][]string, len(reg.locales)),
		}
		for _, l := range reg.locales {
			p := rt.Internal
			if override, ok := rt.Paths[l]; ok {
				p = override
			}
			if err := reg.checkPath(p); err != nil {
				return nil, fmt.Errorf("route %q locale %q: %w", rt.Key, l, err)
			}
			cr.byLocale[l] = splitPath(p)
		}

		reg.routes[rt.Key] = cr
		reg.order = append(reg.order, rt.Key)
	}

	return reg, nil
}

// MustRegistry is like NewRegistry but panics on an invalid table.
func MustRegistry(locales []Locale, defaultLocale Locale, routes []Route) *Registry {
	reg, err := NewRegistry(locales, defaultLocale, routes)
	if err != nil {
		panic("routing: " + err.Error())
	}
	return reg
}

// checkPath rejects empty paths and paths whose first segment is a locale,
// which would make Normalize ambiguous.
func (r *Registry) checkPath(p string) error {
	if p == "" {
		return errors.New("path must not be empty")
	}
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q must start with /", p)
	}
	if segs := splitPath(p); len(segs) > 0 && r.IsSupported(Locale(segs[0])) {
		return fmt.Errorf("path %q must not start with a locale segment", p)
	}
	return nil
}

// Locales returns the supported locales in declaration order.
func (r *Registry) Locales() []Locale {
	out := make([]Locale, len(r.locales))
	copy(out, r.locales)
	return out
}

// DefaultLocale returns the locale served without a path prefix.
func (r *Registry) DefaultLocale() Locale { return r.defaultLocale }

// IsSupported reports whether l is one of the registry's locales.
func (r *Registry) IsSupported(l Locale) bool {
	_, ok := r.supported[l]
	return ok
}

// Keys returns every registered route key in declaration order.
func (r *Registry) Keys() []RouteKey {
	out := make([]RouteKey, len(r.order))
	copy(out, r.order)
	return out
}

// Internal returns the canonical internal path template of a route.
func (r *Registry) Internal(key RouteKey) string {
	return r.mustRoute(key).route.Internal
}

// Path returns the unprefixed path template of key for locale.
// Unknown keys and locales are programming errors and panic.
func (r *Registry) Path(key RouteKey, locale Locale) string {
	cr := r.mustRoute(key)
	if !r.IsSupported(locale) {
		panic(fmt.Sprintf("routing: unsupported locale %q", locale))
	}
	if p, ok := cr.route.Paths[locale]; ok {
		return p
	}
	return cr.route.Internal
}

func (r *Registry) mustRoute(key RouteKey) *compiledRoute {
	cr, ok := r.routes[key]
	if !ok {
		panic(fmt.Sprintf("routing: unregistered route key %q", key))
	}
	return cr
}

// Match finds the route whose path for locale matches path.
// Dynamic segments are returned in params.
func (r *Registry) Match(locale Locale, path string) (RouteKey, map[string]string, bool) {
	segs := splitPath(path)
	for _, key := range r.order {
		tmpl, ok := r.routes[key].byLocale[locale]
		if !ok {
			continue
		}
		if params, ok := matchSegments(tmpl, segs); ok {
			return key, params, true
		}
	}
	return "", nil, false
}

// MatchAny matches path against internal paths first, then every locale's
// public paths in declaration order.
func (r *Registry) MatchAny(path string) (RouteKey, map[string]string, bool) {
	segs := splitPath(path)
	for _, key := range r.order {
		if params, ok := matchSegments(r.routes[key].internal, segs); ok {
			return key, params, true
		}
	}
	for _, l := range r.locales {
		if key, params, ok := r.Match(l, path); ok {
			return key, params, true
		}
	}
	return "", nil, false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func isParam(seg string) bool {
	return len(seg) > 2 && seg[0] == '[' && seg[len(seg)-1] == ']'
}

func matchSegments(tmpl, segs []string) (map[string]string, bool) {
	if len(tmpl) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, t := range tmpl {
		if isParam(t) {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			v, err := url.PathUnescape(segs[i])
			if err != nil {
				return nil, false
			}
			params[t[1:len(t)-1]] = v
			continue
		}
		if t != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// fill substitutes [name] segments of tmpl with escaped params.
func fill(tmpl string, params map[string]string) (string, error) {
	segs := splitPath(tmpl)
	if len(segs) == 0 {
		return "/", nil
	}
	for i, s := range segs {
		if !isParam(s) {
			continue
		}
		name := s[1 : len(s)-1]
		v, ok := params[name]
		if !ok || v == "" {
			return "", fmt.Errorf("missing value for path parameter %q", name)
		}
		segs[i] = url.PathEscape(v)
	}
	return "/" + strings.Join(segs, "/"), nil
}
