// Package security validates user-supplied redirect targets.
package security

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnsafeRedirect is returned for targets that could leave the site.
var ErrUnsafeRedirect = errors.New("unsafe redirect target")

// maxNextLen bounds the accepted target length.
const maxNextLen = 2048

// SanitizeNextPath accepts a same-site relative target ("/vehiculos?page=2")
// and returns it with the fragment stripped. Anything that a browser could
// resolve to another origin is rejected: absolute URLs, scheme-relative
// "//host" and "/\host" forms, backslashes, and control characters.
func SanitizeNextPath(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafeRedirect)
	}
	if len(raw) > maxNextLen {
		return "", fmt.Errorf("%w: too long (%d bytes)", ErrUnsafeRedirect, len(raw))
	}
	if raw[0] != '/' {
		return "", fmt.Errorf("%w: must start with /", ErrUnsafeRedirect)
	}
	if len(raw) > 1 && (raw[1] == '/' || raw[1] == '\\') {
		return "", fmt.Errorf("%w: scheme-relative", ErrUnsafeRedirect)
	}
	for _, ch := range raw {
		if ch < 0x20 || ch == 0x7f || ch == '\\' {
			return "", fmt.Errorf("%w: forbidden character %q", ErrUnsafeRedirect, ch)
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsafeRedirect, err)
	}
	if u.Scheme != "" || u.Host != "" || u.User != nil || u.Opaque != "" {
		return "", fmt.Errorf("%w: not a relative path", ErrUnsafeRedirect)
	}

	// Decoded path must not turn into a scheme-relative form either.
	if strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return "", fmt.Errorf("%w: encoded scheme-relative", ErrUnsafeRedirect)
	}

	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
