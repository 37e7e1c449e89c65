package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryIsTotal(t *testing.T) {
	reg := Default()
	for _, key := range reg.Keys() {
		for _, l := range reg.Locales() {
			p := reg.Path(key, l)
			assert.NotEmpty(t, p, "route %s locale %s", key, l)
			assert.Equal(t, byte('/'), p[0], "route %s locale %s", key, l)
		}
	}
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name    string
		locales []Locale
		def     Locale
		routes  []Route
		errMsg  string
	}{
		{
			name:   "no locales",
			def:    "es",
			errMsg: "at least one locale",
		},
		{
			name:    "default not supported",
			locales: []Locale{"es", "en"},
			def:     "fr",
			errMsg:  "default locale",
		},
		{
			name:    "invalid tag",
			locales: []Locale{"es", "not a tag!"},
			def:     "es",
			errMsg:  "invalid locale",
		},
		{
			name:    "duplicate locale",
			locales: []Locale{"es", "es"},
			def:     "es",
			errMsg:  "duplicate locale",
		},
		{
			name:    "empty internal path",
			locales: []Locale{"es"},
			def:     "es",
			routes:  []Route{{Key: "a"}},
			errMsg:  "must not be empty",
		},
		{
			name:    "relative localized path",
			locales: []Locale{"es", "en"},
			def:     "es",
			routes:  []Route{{Key: "a", Internal: "/a", Paths: map[Locale]string{"es": "a"}}},
			errMsg:  "must start with /",
		},
		{
			name:    "path for unknown locale",
			locales: []Locale{"es", "en"},
			def:     "es",
			routes:  []Route{{Key: "a", Internal: "/a", Paths: map[Locale]string{"fr": "/a"}}},
			errMsg:  "unsupported locale",
		},
		{
			name:    "path shadowed by locale prefix",
			locales: []Locale{"es", "en"},
			def:     "es",
			routes:  []Route{{Key: "a", Internal: "/en/a"}},
			errMsg:  "locale segment",
		},
		{
			name:    "duplicate key",
			locales: []Locale{"es"},
			def:     "es",
			routes:  []Route{{Key: "a", Internal: "/a"}, {Key: "a", Internal: "/b"}},
			errMsg:  "duplicate route key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.locales, tt.def, tt.routes)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMustRegistryPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustRegistry([]Locale{"es"}, "en", nil)
	})
}

func TestPathPanicsOnUnknownKey(t *testing.T) {
	assert.PanicsWithValue(t, `routing: unregistered route key "nope"`, func() {
		Default().Path("nope", LocaleES)
	})
}

func TestPath(t *testing.T) {
	reg := Default()

	assert.Equal(t, "/auth/ingresar", reg.Path(RouteAuthLogin, LocaleES))
	assert.Equal(t, "/auth/login", reg.Path(RouteAuthLogin, LocaleEN))
	assert.Equal(t, "/auth/authorize", reg.Path(RouteAuthAuthorize, LocaleES))
	assert.Equal(t, "/dashboard", reg.Path(RouteDashboard, LocaleES))
	assert.Equal(t, "/dashboard", reg.Path(RouteDashboard, LocaleEN))
	assert.Equal(t, "/protected/profile", reg.Internal(RouteProtectedProfile))
}

func TestMatch(t *testing.T) {
	reg := Default()

	tests := []struct {
		name   string
		locale Locale
		path   string
		key    RouteKey
		params map[string]string
		found  bool
	}{
		{name: "root", locale: LocaleES, path: "/", key: RouteHome, found: true},
		{name: "spanish login", locale: LocaleES, path: "/auth/ingresar", key: RouteAuthLogin, found: true},
		{name: "english login", locale: LocaleEN, path: "/auth/login", key: RouteAuthLogin, found: true},
		{name: "trailing slash", locale: LocaleEN, path: "/auth/login/", key: RouteAuthLogin, found: true},
		{name: "english path under spanish locale", locale: LocaleES, path: "/auth/login", found: false},
		{
			name:   "dynamic segment",
			locale: LocaleES,
			path:   "/vehiculos/toyota-corolla-2020",
			key:    RouteVehicleDetail,
			params: map[string]string{"slug": "toyota-corolla-2020"},
			found:  true,
		},
		{
			name:   "escaped dynamic segment",
			locale: LocaleEN,
			path:   "/vehicles/a%20b",
			key:    RouteVehicleDetail,
			params: map[string]string{"slug": "a b"},
			found:  true,
		},
		{name: "unknown", locale: LocaleEN, path: "/nowhere", found: false},
		{name: "too deep", locale: LocaleEN, path: "/vehicles/a/b", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, params, ok := reg.Match(tt.locale, tt.path)
			require.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestMatchAny(t *testing.T) {
	reg := Default()

	key, _, ok := reg.MatchAny("/protected/profile")
	require.True(t, ok)
	assert.Equal(t, RouteProtectedProfile, key)

	key, _, ok = reg.MatchAny("/protegido/favoritos")
	require.True(t, ok)
	assert.Equal(t, RouteProtectedFavorite, key)

	_, _, ok = reg.MatchAny("/unknown/page")
	assert.False(t, ok)
}

func TestLocaleTag(t *testing.T) {
	assert.Equal(t, "es", LocaleES.Tag().String())
	assert.Equal(t, "en", LocaleEN.Tag().String())
}
