package config

import (
	"fmt"
)

// Redacted returns a map suitable for logging/json with secrets replaced by "***"
func (c Config) Redacted() map[string]any {
	redacted := make(map[string]any)

	redacted["env"] = c.Env
	redacted["app_hostname"] = c.AppHostname
	redacted["port"] = c.Port
	redacted["cookie_domain"] = c.CookieDomain
	redacted["upstream_url"] = c.UpstreamURL
	redacted["auth_url"] = c.AuthURL
	redacted["auth_client_id"] = c.AuthClientID
	redacted["auth_redirect_url"] = c.AuthRedirectURL
	redacted["auth_jwt_issuer"] = c.AuthJWTIssuer
	redacted["auth_jwt_audience"] = c.AuthJWTAudience
	redacted["auth_timeout"] = c.AuthTimeout.String()
	redacted["auth_configured"] = c.AuthConfigured()
	redacted["session_ttl"] = c.SessionTTL.String()
	redacted["userinfo_cache_ttl"] = c.UserCacheTTL.String()
	redacted["log_level"] = c.LogLevel
	redacted["enable_hsts"] = c.EnableHSTS

	if c.AuthClientSecret != "" {
		redacted["auth_client_secret"] = "***"
	}
	if len(c.AuthJWTSecret) > 0 {
		redacted["auth_jwt_secret"] = fmt.Sprintf("*** (%d bytes)", len(c.AuthJWTSecret))
	}

	return redacted
}
