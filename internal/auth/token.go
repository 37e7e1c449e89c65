// This file handles the token endpoint: the authorization code exchange (with
// PKCE when a verifier is available), refresh token rotation and revocation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// TokenError is an OAuth2 error response from the token endpoint.
// It means the provider answered and refused the grant.
type TokenError struct {
	Status      int
	Code        string
	Description string
}

func (e *TokenError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("token request failed with status %d", e.Status)
	}
	return fmt.Sprintf("token request failed: %s", e.Code)
}

// oauthContext routes oauth2 calls through the client's transport.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// exchangeCode redeems an authorization code. The flow is bound to the browser
// by the PKCE verifier, so redirect_uri is not repeated here: it varies with
// the next parameter appended at authorize time.
func (c *Client) exchangeCode(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error) {
	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}
	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code, opts...)
	if err != nil {
		return nil, tokenError(err)
	}
	return tok, nil
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	tok, err := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, tokenError(err)
	}
	return tok, nil
}

// tokenError turns a 4xx answer into *TokenError. Outages and transport
// failures are wrapped as-is.
func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
		return &TokenError{
			Status:      re.Response.StatusCode,
			Code:        re.ErrorCode,
			Description: re.ErrorDescription,
		}
	}
	return fmt.Errorf("token request failed: %w", err)
}

// revoke asks the provider to invalidate a refresh token (RFC 7009).
func (c *Client) revoke(ctx context.Context, refreshToken string) error {
	data := url.Values{}
	data.Set("token", refreshToken)
	data.Set("token_type_hint", "refresh_token")
	data.Set("client_id", c.cfg.ClientID)
	if c.cfg.ClientSecret != "" {
		data.Set("client_secret", c.cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(RevokePath), strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("creating revoke request: %w", err)
	}
	req.Header.Set(HeaderContentType, ContentTypeFormURLEncoded)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke failed with status %d", resp.StatusCode)
	}
	return nil
}
