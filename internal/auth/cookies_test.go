package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieOptsWithDefaults(t *testing.T) {
	opts := CookieOpts{}.WithDefaults()
	assert.Equal(t, "/", opts.Path)
	assert.Equal(t, http.SameSiteLaxMode, opts.SameSite)
	assert.Equal(t, 30*24*time.Hour, opts.TTL)
}

func TestSessionCookies(t *testing.T) {
	opts := CookieOpts{Domain: ".example.com", Secure: true, TTL: time.Hour}
	set := opts.SessionCookies("at", "rt")
	require.Len(t, set, 2)
	for _, c := range set {
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, 3600, c.MaxAge)
		assert.Equal(t, ".example.com", c.Domain)
	}

	assert.Len(t, opts.SessionCookies("at", ""), 1)
}

func TestOverlayCookies(t *testing.T) {
	req := []*http.Cookie{
		{Name: AccessTokenCookie, Value: "old"},
		{Name: "site_locale", Value: "en"},
		{Name: RefreshTokenCookie, Value: "rt"},
	}
	set := []*http.Cookie{
		{Name: AccessTokenCookie, Value: "new", MaxAge: 60},
		{Name: RefreshTokenCookie, MaxAge: -1},
	}

	got := OverlayCookies(req, set)
	assert.Equal(t, "new", CookieValue(got, AccessTokenCookie))
	assert.Equal(t, "en", CookieValue(got, "site_locale"))
	assert.Equal(t, "", CookieValue(got, RefreshTokenCookie))
	assert.Len(t, got, 2)
	assert.Equal(t, "old", req[0].Value, "input must not be mutated")
}
