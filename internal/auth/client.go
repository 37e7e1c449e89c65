package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// ClientConfig holds the identity provider settings.
type ClientConfig struct {
	BaseURL      string // provider domain or URL, e.g. "id.example.com"
	ClientID     string
	ClientSecret string // optional, confidential clients only
	JWTSecret    []byte // HS256 key access tokens are signed with
	Issuer       string // optional expected "iss"
	Audience     string // optional expected "aud"
	Scope        string // authorize scope, default DefaultScope
	Timeout      time.Duration
	Leeway       time.Duration
	Cookies      CookieOpts

	// UserCacheTTL caches userinfo answers per access token; 0 disables it.
	UserCacheTTL  time.Duration
	UserCacheSize int // default 1024
}

// Client is the Provider backed by an OAuth2/OIDC identity provider.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	oauth      *oauth2.Config
	now        func() time.Time

	// refreshes collapses concurrent rotations of one refresh token.
	refreshes singleflight.Group
	users     *expirable.LRU[string, *User]
}

var _ Provider = (*Client)(nil)

// NewClient returns a Client, or ErrNotConfigured when the required settings
// are missing.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" || cfg.ClientID == "" || len(cfg.JWTSecret) == 0 {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	cfg.Cookies = cfg.Cookies.WithDefaults()

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: requestIDTransport{next: otelhttp.NewTransport(http.DefaultTransport)},
		},
		now: time.Now,
	}
	c.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{
			AuthURL:   c.endpoint(AuthorizePath),
			TokenURL:  c.endpoint(TokenPath),
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: strings.Fields(cfg.Scope),
	}
	if cfg.UserCacheTTL > 0 {
		size := cfg.UserCacheSize
		if size <= 0 {
			size = 1024
		}
		c.users = expirable.NewLRU[string, *User](size, nil, cfg.UserCacheTTL)
	}
	return c, nil
}

// endpoint builds a provider URL, preserving the scheme if the base URL has one.
func (c *Client) endpoint(path string) string {
	base := c.cfg.BaseURL
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return strings.TrimSuffix(base, "/") + path
	}
	return "https://" + strings.TrimSuffix(base, "/") + path
}

// WellKnownURL is the provider discovery document, used by health checks.
func (c *Client) WellKnownURL() string { return c.endpoint(WellKnown) }

// requestIDTransport tags provider calls with the inbound request id, or a
// fresh one outside a request.
type requestIDTransport struct {
	next http.RoundTripper
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := middleware.GetReqID(req.Context())
	if id == "" {
		id = uuid.NewString()
	}
	req = req.Clone(req.Context())
	req.Header.Set(HeaderRequestID, id)
	return t.next.RoundTrip(req)
}

// RefreshClaims verifies the access token locally. An expired token is
// rotated with the refresh token; the new cookies are returned for the caller
// to write. A token that fails verification yields no claims and cookies that
// delete the session.
func (c *Client) RefreshClaims(ctx context.Context, cookies []*http.Cookie) (*Claims, []*http.Cookie, error) {
	access := CookieValue(cookies, AccessTokenCookie)
	refresh := CookieValue(cookies, RefreshTokenCookie)
	if access == "" && refresh == "" {
		return nil, nil, nil
	}

	if access != "" {
		claims, err := c.verify(access)
		if err == nil {
			return claims, nil, nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return nil, c.cfg.Cookies.ClearSessionCookies(), nil
		}
	}

	if refresh == "" {
		return nil, c.cfg.Cookies.ClearSessionCookies(), nil
	}

	v, err, _ := c.refreshes.Do(refresh, func() (any, error) {
		return c.refresh(ctx, refresh)
	})
	if err != nil {
		var tokenErr *TokenError
		if errors.As(err, &tokenErr) {
			// The provider rejected the refresh token: the session is gone.
			return nil, c.cfg.Cookies.ClearSessionCookies(), nil
		}
		return nil, nil, err
	}

	tok := v.(*oauth2.Token)
	claims, err := c.verify(tok.AccessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("verifying refreshed access token: %w", err)
	}

	next := tok.RefreshToken
	if next == "" {
		next = refresh
	}
	return claims, c.cfg.Cookies.SessionCookies(tok.AccessToken, next), nil
}

// GetUser calls the userinfo endpoint with the session access token.
func (c *Client) GetUser(ctx context.Context, cookies []*http.Cookie) (*User, error) {
	access := CookieValue(cookies, AccessTokenCookie)
	if access == "" {
		return nil, nil
	}

	key := tokenKey(access)
	if c.users != nil {
		if u, ok := c.users.Get(key); ok {
			return u, nil
		}
	}

	info, err := c.fetchUserInfo(ctx, access)
	if err != nil {
		if errors.Is(err, ErrInvalidAccessToken) {
			return nil, nil
		}
		return nil, err
	}

	u := &User{ID: info.Sub, Email: info.Email, Name: info.Name}
	if c.users != nil {
		c.users.Add(key, u)
	}
	return u, nil
}

// tokenKey keeps raw tokens out of the user cache.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ExchangeCode swaps an authorization code for a session. The PKCE verifier
// is read from its cookie when present and cleared afterwards.
func (c *Client) ExchangeCode(ctx context.Context, code string, cookies []*http.Cookie) (*Session, []*http.Cookie, error) {
	if code == "" {
		return nil, nil, errors.New("authorization code is required")
	}

	verifier := CookieValue(cookies, CodeVerifierCookie)
	tok, err := c.exchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, nil, err
	}

	claims, err := c.verify(tok.AccessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("verifying issued access token: %w", err)
	}

	set := c.cfg.Cookies.SessionCookies(tok.AccessToken, tok.RefreshToken)
	if verifier != "" {
		set = append(set, c.cfg.Cookies.ClearCodeVerifier())
	}

	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    int(tok.ExpiresIn),
		User:         User{ID: claims.Subject, Email: claims.Email},
	}, set, nil
}

// SignOut revokes the refresh token, if any, and returns cookies that delete
// the session. The cookies are returned even when revocation fails.
func (c *Client) SignOut(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error) {
	cleared := c.cfg.Cookies.ClearSessionCookies()
	refresh := CookieValue(cookies, RefreshTokenCookie)
	if refresh == "" {
		return cleared, nil
	}
	return cleared, c.revoke(ctx, refresh)
}
