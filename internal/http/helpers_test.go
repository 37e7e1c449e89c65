package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
	"github.com/mlehotskylf-org/marketplace-edge/internal/config"
	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// fakeProvider is a scripted auth.Provider that records its calls.
type fakeProvider struct {
	claims     *auth.Claims
	rotated    []*http.Cookie
	refreshErr error

	user    *auth.User
	userErr error

	exchangeCookies []*http.Cookie
	exchangeErr     error

	refreshCalls   int
	userCalls      int
	exchangeCalls  int
	gotUserCookies []*http.Cookie
	gotCode        string
}

func (f *fakeProvider) RefreshClaims(ctx context.Context, cookies []*http.Cookie) (*auth.Claims, []*http.Cookie, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, nil, f.refreshErr
	}
	return f.claims, f.rotated, nil
}

func (f *fakeProvider) GetUser(ctx context.Context, cookies []*http.Cookie) (*auth.User, error) {
	f.userCalls++
	f.gotUserCookies = cookies
	return f.user, f.userErr
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, code string, cookies []*http.Cookie) (*auth.Session, []*http.Cookie, error) {
	f.exchangeCalls++
	f.gotCode = code
	if f.exchangeErr != nil {
		return nil, nil, f.exchangeErr
	}
	return &auth.Session{AccessToken: "at"}, f.exchangeCookies, nil
}

// rotatedSession is the cookie a refresh hands back after rotating the token.
func rotatedSession() *http.Cookie {
	return &http.Cookie{Name: auth.AccessTokenCookie, Value: "rotated-token", Path: "/", MaxAge: 3600, HttpOnly: true}
}

func newTestConfig() config.Config {
	return config.Config{
		Env:         "dev",
		Port:        "8080",
		AuthTimeout: 10 * time.Second,
		SessionTTL:  24 * time.Hour,
		LogLevel:    "info",
	}
}

func newTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func newTestRouter(t *testing.T, cfg config.Config, provider auth.Provider, upstream http.Handler) http.Handler {
	t.Helper()
	h, err := NewRouter(cfg, Options{
		Logger:   zap.NewNop(),
		Provider: provider,
		Upstream: upstream,
	})
	require.NoError(t, err)
	return h
}

// recordingUpstream captures the request it was handed.
type recordingUpstream struct {
	called bool
	req    *http.Request
}

func (u *recordingUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.called = true
	u.req = r
	w.WriteHeader(http.StatusOK)
}

func newRequest(method, target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func localeCookie(l routing.Locale) *http.Cookie {
	return &http.Cookie{Name: routing.LocaleCookie, Value: l.String()}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
