package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// revokingProvider adds remote sign-out to fakeProvider.
type revokingProvider struct {
	*fakeProvider
	err        error
	gotRefresh string
}

func (p *revokingProvider) SignOut(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error) {
	p.gotRefresh = auth.CookieValue(cookies, auth.RefreshTokenCookie)
	return nil, p.err
}

func TestSignOut(t *testing.T) {
	tests := []struct {
		name     string
		provider auth.Provider
		target   string
		cookies  []*http.Cookie
		want     string
	}{
		{
			name:   "no provider",
			target: "/auth/salir",
			want:   "/",
		},
		{
			name:     "provider without revocation",
			provider: &fakeProvider{},
			target:   "/en/auth/signout",
			want:     "/en",
		},
		{
			name:     "revocation failure still clears",
			provider: &revokingProvider{fakeProvider: &fakeProvider{}, err: errors.New("revoke failed")},
			target:   "/auth/salir",
			cookies:  []*http.Cookie{localeCookie(routing.LocaleEN)},
			want:     "/en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSignOutHandler(routing.Default(), tt.provider, auth.CookieOpts{Domain: ".example.com"}, zap.NewNop(), "")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest(http.MethodPost, tt.target, tt.cookies...))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get(HeaderLocation))

			cookies := rec.Result().Cookies()
			for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
				c := findCookie(cookies, name)
				require.NotNil(t, c, name)
				assert.Equal(t, -1, c.MaxAge, name)
			}
		})
	}
}

func TestSignOut_RevokesRefreshToken(t *testing.T) {
	p := &revokingProvider{fakeProvider: &fakeProvider{}}
	h := NewSignOutHandler(routing.Default(), p, auth.CookieOpts{}, zap.NewNop(), "")

	req := newRequest(http.MethodGet, "/auth/salir", &http.Cookie{Name: auth.RefreshTokenCookie, Value: "rt-1"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "rt-1", p.gotRefresh)
}
