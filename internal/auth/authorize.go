package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// AuthorizeParams contains parameters for building an OAuth2/OIDC authorization URL.
type AuthorizeParams struct {
	// Required fields
	Endpoint    string // Full authorize endpoint URL
	ClientID    string // OAuth2 client identifier
	RedirectURI string // Callback URL after authorization
	Scope       string // Space-separated scopes
	State       string // Opaque value echoed back by the provider

	// PKCE parameters (RFC 7636)
	CodeChallenge       string
	CodeChallengeMethod string // "S256"

	// Optional parameters
	Prompt   string // e.g. "login"
	Audience string // API audience for the access token
}

// BuildAuthorizeURL constructs an authorization code URL. It validates
// required fields and URL-encodes every parameter.
func BuildAuthorizeURL(p AuthorizeParams) (string, error) {
	if p.Endpoint == "" {
		return "", errors.New("endpoint is required")
	}
	if p.ClientID == "" {
		return "", errors.New("client_id is required")
	}
	if p.RedirectURI == "" {
		return "", errors.New("redirect_uri is required")
	}
	if p.Scope == "" {
		return "", errors.New("scope is required")
	}
	if p.State == "" {
		return "", errors.New("state is required")
	}

	// A PKCE challenge is required; the code exchange sends the verifier.
	if p.CodeChallenge == "" {
		return "", errors.New("code_challenge is required")
	}
	if p.CodeChallengeMethod != "S256" {
		return "", fmt.Errorf("invalid code_challenge_method: %q (must be 'S256')", p.CodeChallengeMethod)
	}

	u, err := url.Parse(p.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("endpoint must be an absolute URL, got %q", p.Endpoint)
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", p.RedirectURI)
	q.Set("scope", p.Scope)
	q.Set("state", p.State)
	q.Set("code_challenge", p.CodeChallenge)
	q.Set("code_challenge_method", p.CodeChallengeMethod)
	if p.Prompt != "" {
		q.Set("prompt", p.Prompt)
	}
	if p.Audience != "" {
		q.Set("audience", p.Audience)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// StartLogin begins an authorization code flow that returns to redirectURI.
// It returns the provider URL to send the browser to and the cookie holding
// the PKCE verifier that ExchangeCode will read back.
func (c *Client) StartLogin(redirectURI string) (string, *http.Cookie, error) {
	verifier, err := NewCodeVerifier(32)
	if err != nil {
		return "", nil, err
	}
	challenge, err := CodeChallengeS256(verifier)
	if err != nil {
		return "", nil, err
	}
	state, err := NewState(16)
	if err != nil {
		return "", nil, err
	}

	authorizeURL, err := BuildAuthorizeURL(AuthorizeParams{
		Endpoint:            c.oauth.Endpoint.AuthURL,
		ClientID:            c.oauth.ClientID,
		RedirectURI:         redirectURI,
		Scope:               strings.Join(c.oauth.Scopes, " "),
		State:               state,
		CodeChallenge:       challenge,
		CodeChallengeMethod: "S256",
		Audience:            c.cfg.Audience,
	})
	if err != nil {
		return "", nil, err
	}
	return authorizeURL, c.cfg.Cookies.CodeVerifier(verifier), nil
}
