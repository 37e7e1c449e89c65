// Package auth talks to the external identity provider. It never stores
// session state itself: every call re-derives the session from the cookies
// handed in and reports the cookies the provider wants written back.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotConfigured is returned when the identity provider settings are absent.
var ErrNotConfigured = errors.New("identity provider is not configured")

// Provider is the narrow surface the edge consumes from the identity provider.
//
// A missing session is not an error: RefreshClaims and GetUser return nil
// values with a nil error. Errors are reserved for failed provider calls.
type Provider interface {
	// RefreshClaims validates and, when needed, rotates the session token.
	RefreshClaims(ctx context.Context, cookies []*http.Cookie) (*Claims, []*http.Cookie, error)
	// GetUser asks the provider for the user behind the session.
	GetUser(ctx context.Context, cookies []*http.Cookie) (*User, error)
	// ExchangeCode completes an authorization code flow.
	ExchangeCode(ctx context.Context, code string, cookies []*http.Cookie) (*Session, []*http.Cookie, error)
}

// Claims are the access token claims the edge relies on.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

// User is the authoritative user record returned by the provider.
type User struct {
	ID    string
	Email string
	Name  string
}

// Session is the result of a successful code exchange.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         User
}
