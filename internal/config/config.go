package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
)

// Config holds all application configuration
type Config struct {
	// Environment: dev, staging, or prod (default: dev)
	Env string

	// Public hostname used for absolute redirects (e.g., autos.example.com).
	// Empty means the request Host is used.
	AppHostname string

	// Server port (default: 8080)
	Port string

	// Cookie domain for session and locale cookies; empty for host-only cookies
	CookieDomain string

	// Upstream application the rewritten requests are forwarded to.
	// Empty serves a JSON description of the routing decision instead.
	UpstreamURL string

	// Identity provider base URL or domain (e.g., id.example.com)
	AuthURL string

	// OAuth client credentials
	AuthClientID     string
	AuthClientSecret string

	// Callback URL sent on authorize requests (optional; derived from the request when empty)
	AuthRedirectURL string

	// Secret the provider signs access tokens with (HS256)
	AuthJWTSecret []byte

	// Expected issuer and audience of access tokens (optional)
	AuthJWTIssuer   string
	AuthJWTAudience string

	// Timeout for each identity provider call (default: 10s)
	AuthTimeout time.Duration

	// How long a userinfo answer is reused for the same access token (default: 0, off)
	UserCacheTTL time.Duration

	// Session TTL - lifetime of the session cookies (default: 720h)
	SessionTTL time.Duration

	// Log level: info, debug, warn, error (default: info)
	LogLevel string

	// Enable HSTS - default false in dev, true in prod
	EnableHSTS bool
}

// FromEnv reads configuration from environment variables
func FromEnv() (Config, error) {
	cfg := Config{}

	cfg.Env = getEnv("ENV", "dev")

	appHostname := getEnv("APP_HOSTNAME", "")
	if appHostname != "" {
		normalized, err := normalizeHostname(appHostname)
		if err != nil {
			return cfg, fmt.Errorf("invalid APP_HOSTNAME: %w", err)
		}
		cfg.AppHostname = normalized
	}
	cfg.Port = getEnv("PORT", "8080")
	cfg.CookieDomain = getEnv("COOKIE_DOMAIN", "")
	cfg.UpstreamURL = getEnv("UPSTREAM_URL", "")

	// Identity provider settings
	cfg.AuthURL = getEnv("AUTH_URL", "")
	cfg.AuthClientID = getEnv("AUTH_CLIENT_ID", "")
	cfg.AuthClientSecret = getEnv("AUTH_CLIENT_SECRET", "")
	cfg.AuthRedirectURL = getEnv("AUTH_REDIRECT_URL", "")
	if secret := getEnv("AUTH_JWT_SECRET", ""); secret != "" {
		cfg.AuthJWTSecret = []byte(secret)
	}
	cfg.AuthJWTIssuer = getEnv("AUTH_JWT_ISSUER", "")
	cfg.AuthJWTAudience = getEnv("AUTH_JWT_AUDIENCE", "")

	var err error
	cfg.AuthTimeout, err = parseDuration("AUTH_TIMEOUT", "10s")
	if err != nil {
		return cfg, err
	}

	cfg.SessionTTL, err = parseDuration("SESSION_TTL", "720h")
	if err != nil {
		return cfg, err
	}

	cfg.UserCacheTTL, err = parseDuration("USERINFO_CACHE_TTL", "0s")
	if err != nil {
		return cfg, err
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))

	// HSTS - default based on environment
	cfg.EnableHSTS = parseBool("ENABLE_HSTS", cfg.Env == "prod")

	return cfg, nil
}

// Validate checks field formats and that the identity provider settings are
// either complete or entirely absent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required (set to a port number 1-65535, e.g., 8080)")
	}
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be a valid number 1-65535 (got %q)", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be 1-65535 (got %q)", c.Port)
	}

	if c.CookieDomain != "" {
		if !strings.HasPrefix(c.CookieDomain, ".") {
			return fmt.Errorf("COOKIE_DOMAIN must start with '.' for subdomain sharing (got %q, use %q)", c.CookieDomain, "."+c.CookieDomain)
		}
		if !strings.Contains(c.CookieDomain[1:], ".") {
			return fmt.Errorf("COOKIE_DOMAIN must contain a dot after the leading dot (got %q, expected format like '.example.com')", c.CookieDomain)
		}
	}

	if c.UpstreamURL != "" {
		u, err := url.Parse(c.UpstreamURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("UPSTREAM_URL must be an absolute http(s) URL (got %q)", c.UpstreamURL)
		}
	}

	// Identity provider: all or nothing
	set := 0
	for _, v := range []string{c.AuthURL, c.AuthClientID, string(c.AuthJWTSecret)} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("AUTH_URL, AUTH_CLIENT_ID and AUTH_JWT_SECRET must be set together")
	}
	if len(c.AuthJWTSecret) > 0 && len(c.AuthJWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 bytes (got %d bytes)", len(c.AuthJWTSecret))
	}
	if c.AuthTimeout <= 0 {
		return fmt.Errorf("AUTH_TIMEOUT must be positive (got %v)", c.AuthTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive (got %v)", c.SessionTTL)
	}
	if c.UserCacheTTL < 0 {
		return fmt.Errorf("USERINFO_CACHE_TTL must not be negative (got %v)", c.UserCacheTTL)
	}

	switch c.Env {
	case "dev", "staging", "prod":
		// valid
	default:
		return fmt.Errorf("ENV must be 'dev', 'staging', or 'prod' (got %q)", c.Env)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("LOG_LEVEL must be 'debug', 'info', 'warn', or 'error' (got %q)", c.LogLevel)
	}

	return nil
}

// AuthConfigured reports whether the identity provider can be reached at all.
func (c Config) AuthConfigured() bool {
	return c.AuthURL != "" && c.AuthClientID != "" && len(c.AuthJWTSecret) > 0
}

// SecureCookies reports whether cookies must carry the Secure attribute.
func (c Config) SecureCookies() bool {
	return c.Env != "dev"
}

// SessionCookieOpts returns the options for session cookies.
func (c Config) SessionCookieOpts() auth.CookieOpts {
	return auth.CookieOpts{
		Domain: c.CookieDomain,
		Secure: c.SecureCookies(),
		TTL:    c.SessionTTL,
	}.WithDefaults()
}

// ProviderConfig returns the identity provider client settings.
func (c Config) ProviderConfig() auth.ClientConfig {
	return auth.ClientConfig{
		BaseURL:      c.AuthURL,
		ClientID:     c.AuthClientID,
		ClientSecret: c.AuthClientSecret,
		JWTSecret:    c.AuthJWTSecret,
		Issuer:       c.AuthJWTIssuer,
		Audience:     c.AuthJWTAudience,
		Timeout:      c.AuthTimeout,
		Cookies:      c.SessionCookieOpts(),
		UserCacheTTL: c.UserCacheTTL,
	}
}

// Helper functions

// getEnv returns the value of an environment variable or a default value
func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// parseDuration parses a duration environment variable with a default
func parseDuration(key, def string) (time.Duration, error) {
	value := getEnv(key, def)
	dur, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return dur, nil
}

// parseBool parses a boolean environment variable with a default
func parseBool(key string, def bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

// normalizeHostname ensures hostname is host-only (no scheme/port)
func normalizeHostname(hostname string) (string, error) {
	if strings.Contains(hostname, "://") {
		return "", fmt.Errorf("hostname must not contain scheme (found ://): %s", hostname)
	}
	if strings.Contains(hostname, ":") {
		return "", fmt.Errorf("hostname must not contain port (found :): %s", hostname)
	}
	return strings.ToLower(strings.TrimSpace(hostname)), nil
}
