package httpx

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// SignOutHandler clears the session cookies, asks the provider to revoke the
// refresh token when it can, and returns the browser to the localized home.
// Revocation failures are logged; the local session is cleared regardless.
type SignOutHandler struct {
	registry *routing.Registry
	provider auth.Provider
	cookies  auth.CookieOpts
	logger   *zap.Logger
	origin   string
}

// NewSignOutHandler builds the sign-out handler.
func NewSignOutHandler(reg *routing.Registry, provider auth.Provider, cookies auth.CookieOpts, logger *zap.Logger, origin string) *SignOutHandler {
	return &SignOutHandler{
		registry: reg,
		provider: provider,
		cookies:  cookies.WithDefaults(),
		logger:   logger,
		origin:   origin,
	}
}

func (h *SignOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := NewResult()
	for _, c := range h.cookies.ClearSessionCookies() {
		res.SetCookie(c)
	}

	if s, ok := h.provider.(signOuter); ok {
		set, err := s.SignOut(r.Context(), r.Cookies())
		if err != nil {
			h.logger.Warn("token revocation failed", zap.Error(err))
		}
		for _, c := range set {
			res.SetCookie(c)
		}
	}

	norm := h.registry.Normalize(r.URL.Path)
	locale := norm.Locale
	if !norm.Explicit {
		locale = h.registry.ResolveRequest(r)
	}

	res.Redirect(http.StatusSeeOther, h.origin+h.registry.Localize(routing.RouteHome, locale))
	res.Write(w)
}
