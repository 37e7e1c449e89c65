package httpx

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// SessionGuard decides whether a request may proceed to locale routing.
//
// Every request first refreshes the session claims, which also rotates the
// session cookies. Protected paths then require a current user; without one
// the guard redirects to the localized login page carrying the original
// request URI in redirectTo. Cookies from the refresh step are kept on every
// outcome, including the redirect.
type SessionGuard struct {
	registry *routing.Registry
	provider auth.Provider
	metrics  *Metrics
	logger   *zap.Logger
	origin   string
}

// NewSessionGuard builds a guard. A nil provider lets every request pass.
func NewSessionGuard(reg *routing.Registry, provider auth.Provider, m *Metrics, logger *zap.Logger, origin string) *SessionGuard {
	return &SessionGuard{
		registry: reg,
		provider: provider,
		metrics:  m,
		logger:   logger,
		origin:   origin,
	}
}

// Check runs the guard for r. Provider failures are returned as errors.
func (g *SessionGuard) Check(r *http.Request) (*Result, error) {
	res := NewResult()
	if g.provider == nil {
		g.metrics.guard(outcomeOpen)
		return res, nil
	}

	ctx := r.Context()
	reqCookies := r.Cookies()

	claims, rotated, err := g.provider.RefreshClaims(ctx, reqCookies)
	if err != nil {
		g.metrics.guard(outcomeError)
		return nil, fmt.Errorf("refresh claims: %w", err)
	}
	for _, c := range rotated {
		res.SetCookie(c)
	}
	if claims != nil {
		res.Header.Set(HeaderEdgeSession, "valid")
	} else {
		res.Header.Set(HeaderEdgeSession, "none")
	}

	norm := g.registry.Normalize(r.URL.Path)
	if !routing.IsProtected(norm.Path) {
		g.metrics.guard(outcomePass)
		return res, nil
	}

	user, err := g.provider.GetUser(ctx, auth.OverlayCookies(reqCookies, rotated))
	if err != nil {
		g.metrics.guard(outcomeError)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user != nil {
		res.Header.Set(HeaderEdgeUser, user.ID)
		g.metrics.guard(outcomeAllow)
		return res, nil
	}

	locale := norm.Locale
	if !norm.Explicit {
		locale = g.registry.ResolveRequest(r)
	}
	location := g.origin + loginURL(g.registry, locale, r.URL.RequestURI())
	res.Redirect(http.StatusSeeOther, location)

	g.metrics.guard(outcomeDeny)
	g.logger.Debug("session required",
		zap.String("path", r.URL.Path),
		zap.String("locale", locale.String()),
	)
	return res, nil
}

// loginURL is the localized login path with redirectTo set to requestURI.
func loginURL(reg *routing.Registry, locale routing.Locale, requestURI string) string {
	q := url.Values{ParamRedirectTo: {requestURI}}
	return reg.Localize(routing.RouteAuthLogin, locale) + "?" + q.Encode()
}
