// Package httpx hosts the edge pipeline: session guard, locale routing and the
// auth callback, mounted on a chi router.
package httpx

// HTTP Routes
const (
	// RouteHealth is the endpoint for health checks
	RouteHealth = "/healthz"
	// RouteMetrics serves Prometheus metrics outside prod
	RouteMetrics = "/metrics"
)

// Content Types
const (
	// ContentTypeJSON is the MIME type for JSON responses with UTF-8 charset
	ContentTypeJSON = "application/json; charset=utf-8"
)

// HTTP Headers
const (
	// HeaderContentType is the Content-Type header name
	HeaderContentType = "Content-Type"
	// HeaderLocation is the Location header name for redirects
	HeaderLocation = "Location"
	// HeaderContentLanguage carries the served locale
	HeaderContentLanguage = "Content-Language"
)

// Pipeline metadata headers. Anything prefixed with EdgeHeaderPrefix is
// carried from the guard onto the final result and forwarded upstream. Inbound
// copies are stripped. Identity headers are never written to the client.
const (
	EdgeHeaderPrefix = "X-Edge-"

	// HeaderEdgeLocale is the locale the request is served in
	HeaderEdgeLocale = "X-Edge-Locale"
	// HeaderEdgeRoute is the matched route key, absent for unknown paths
	HeaderEdgeRoute = "X-Edge-Route"
	// HeaderEdgeRewrite is the upstream path the request was rewritten to
	HeaderEdgeRewrite = "X-Edge-Rewrite"
	// HeaderEdgeSession is "valid" when the access token verified, "none" otherwise
	HeaderEdgeSession = "X-Edge-Session"
	// HeaderEdgeUser is the authenticated user id on protected paths
	HeaderEdgeUser = "X-Edge-User"
)

// upstreamOnly lists the metadata headers kept off the client response.
var upstreamOnly = map[string]bool{
	HeaderEdgeSession: true,
	HeaderEdgeUser:    true,
}

// Query parameters
const (
	// ParamRedirectTo carries the original request URI on login redirects
	ParamRedirectTo = "redirectTo"
	// ParamNext is the caller-supplied destination on the callback
	ParamNext = "next"
)

// localeCookieMaxAge keeps the locale preference for a year.
const localeCookieMaxAge = 365 * 24 * 60 * 60
