package auth

// Content Types
const (
	// ContentTypeFormURLEncoded is the MIME type for URL-encoded form data
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

// HTTP Headers
const (
	// HeaderContentType is the Content-Type header name
	HeaderContentType = "Content-Type"
	// HeaderRequestID correlates provider calls with the inbound request
	HeaderRequestID = "X-Request-Id"
)

// Provider endpoints, relative to the provider base URL.
const (
	TokenPath     = "/oauth/token"
	UserInfoPath  = "/userinfo"
	RevokePath    = "/oauth/revoke"
	AuthorizePath = "/authorize"
	WellKnown     = "/.well-known/openid-configuration"
)

// DefaultScope requests an ID, the profile and a refresh token.
const DefaultScope = "openid profile email offline_access"

// Session cookies.
const (
	AccessTokenCookie  = "auth_access_token"
	RefreshTokenCookie = "auth_refresh_token"
	CodeVerifierCookie = "auth_code_verifier"
)
