package auth

import (
	"net/http"
	"time"
)

// CookieOpts controls the attributes of the session cookies.
type CookieOpts struct {
	Domain   string        // e.g., ".example.com"; empty for host-only
	Secure   bool          // true outside dev
	Path     string        // default "/"
	SameSite http.SameSite // default Lax
	TTL      time.Duration // session cookie lifetime
}

// WithDefaults returns a copy of CookieOpts with sensible defaults applied
func (opts CookieOpts) WithDefaults() CookieOpts {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	return opts
}

func (opts CookieOpts) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
}

func (opts CookieOpts) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
}

// SessionCookies returns the cookies that carry a token pair.
func (opts CookieOpts) SessionCookies(accessToken, refreshToken string) []*http.Cookie {
	opts = opts.WithDefaults()
	out := []*http.Cookie{opts.cookie(AccessTokenCookie, accessToken)}
	if refreshToken != "" {
		out = append(out, opts.cookie(RefreshTokenCookie, refreshToken))
	}
	return out
}

// ClearSessionCookies returns cookies that delete every session cookie.
func (opts CookieOpts) ClearSessionCookies() []*http.Cookie {
	opts = opts.WithDefaults()
	return []*http.Cookie{
		opts.expired(AccessTokenCookie),
		opts.expired(RefreshTokenCookie),
	}
}

// codeVerifierTTL bounds how long a sign-in may take at the provider.
const codeVerifierTTL = 10 * time.Minute

// CodeVerifier returns the short-lived cookie carrying the PKCE verifier.
func (opts CookieOpts) CodeVerifier(verifier string) *http.Cookie {
	opts = opts.WithDefaults()
	opts.TTL = codeVerifierTTL
	return opts.cookie(CodeVerifierCookie, verifier)
}

// ClearCodeVerifier returns a cookie deleting the PKCE verifier.
func (opts CookieOpts) ClearCodeVerifier() *http.Cookie {
	return opts.WithDefaults().expired(CodeVerifierCookie)
}

// CookieValue returns the value of the first cookie called name.
func CookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// OverlayCookies returns the request cookies as they will look on the next
// request once set has been applied: same-name cookies are replaced and
// deletions are dropped.
func OverlayCookies(req, set []*http.Cookie) []*http.Cookie {
	replaced := make(map[string]*http.Cookie, len(set))
	for _, c := range set {
		replaced[c.Name] = c
	}

	out := make([]*http.Cookie, 0, len(req)+len(set))
	for _, c := range req {
		if _, ok := replaced[c.Name]; ok {
			continue
		}
		out = append(out, c)
	}
	for _, c := range set {
		if c.MaxAge < 0 || c.Value == "" {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}
