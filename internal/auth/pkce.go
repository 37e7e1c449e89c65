package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"

	"golang.org/x/oauth2"
)

// verifierPattern is the RFC 7636 unreserved alphabet without padding.
var verifierPattern = regexp.MustCompile(`^[A-Za-z0-9\-._~]+$`)

// NewCodeVerifier returns a base64url PKCE verifier built from nBytes random
// bytes. RFC 7636 bounds the encoded length to 43-128 characters, which
// allows 32 to 96 bytes.
func NewCodeVerifier(nBytes int) (string, error) {
	if nBytes < 32 {
		return "", fmt.Errorf("code verifier must be at least 32 bytes, got %d", nBytes)
	}
	if nBytes > 96 {
		return "", fmt.Errorf("code verifier must be at most 96 bytes, got %d", nBytes)
	}
	return randomString(nBytes)
}

// CodeChallengeS256 derives the S256 challenge for verifier.
func CodeChallengeS256(verifier string) (string, error) {
	switch {
	case verifier == "":
		return "", fmt.Errorf("code verifier cannot be empty")
	case len(verifier) < 43:
		return "", fmt.Errorf("code verifier too short: %d characters", len(verifier))
	case len(verifier) > 128:
		return "", fmt.Errorf("code verifier too long: %d characters", len(verifier))
	case !verifierPattern.MatchString(verifier):
		return "", fmt.Errorf("invalid code verifier format")
	}
	return oauth2.S256ChallengeFromVerifier(verifier), nil
}

// NewState returns an opaque authorize state of nBytes random bytes (16-64).
func NewState(nBytes int) (string, error) {
	if nBytes < 16 {
		return "", fmt.Errorf("state must be at least 16 bytes, got %d", nBytes)
	}
	if nBytes > 64 {
		return "", fmt.Errorf("state must be at most 64 bytes, got %d", nBytes)
	}
	return randomString(nBytes)
}

func randomString(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
