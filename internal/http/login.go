package httpx

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/config"
	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
	"github.com/mlehotskylf-org/marketplace-edge/internal/security"
)

// loginStarter begins an authorization code flow. *auth.Client implements it.
type loginStarter interface {
	StartLogin(redirectURI string) (authorizeURL string, verifier *http.Cookie, err error)
}

// SignInHandler sends the browser to the identity provider. The callback URL
// carries the sanitized next parameter so the callback can finish the trip.
type SignInHandler struct {
	registry    *routing.Registry
	starter     loginStarter
	redirectURL string
	metrics     *Metrics
	logger      *zap.Logger
	origin      string
}

// NewSignInHandler builds the sign-in handler. redirectURL is the configured
// callback URL; when empty it is derived from the request host. A nil starter
// sends every sign-in to the error page.
func NewSignInHandler(reg *routing.Registry, starter loginStarter, redirectURL string, m *Metrics, logger *zap.Logger, origin string) *SignInHandler {
	return &SignInHandler{
		registry:    reg,
		starter:     starter,
		redirectURL: redirectURL,
		metrics:     m,
		logger:      logger,
		origin:      origin,
	}
}

func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	locale := h.registry.ResolveRequest(r)
	res := NewResult()

	if h.starter == nil {
		h.metrics.signIn(signInNotConfigured)
		res.Redirect(http.StatusSeeOther, h.origin+h.registry.Localize(routing.RouteAuthError, locale))
		res.Write(w)
		return
	}

	callback, err := h.callbackURL(r, r.URL.Query().Get(ParamNext))
	if err != nil {
		h.logger.Error("invalid callback URL", zap.Error(err))
		h.metrics.signIn(signInError)
		ServerError(w, r)
		return
	}

	authorizeURL, verifier, err := h.starter.StartLogin(callback)
	if err != nil {
		h.logger.Error("start login failed", zap.Error(err))
		h.metrics.signIn(signInError)
		ServerError(w, r)
		return
	}

	h.metrics.signIn(signInStarted)
	res.SetCookie(verifier)
	res.Redirect(http.StatusSeeOther, authorizeURL)
	res.Write(w)
}

// callbackURL returns the absolute callback URL with next attached when it
// is a safe same-site path. An unsafe next is dropped.
func (h *SignInHandler) callbackURL(r *http.Request, next string) (string, error) {
	raw := h.redirectURL
	if raw == "" {
		scheme := "https"
		if config.IsLocalhost(r.Host) {
			scheme = "http"
		}
		raw = scheme + "://" + r.Host + h.registry.Internal(routing.RouteAuthCallback)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if next == "" {
		return u.String(), nil
	}

	safe, err := security.SanitizeNextPath(next)
	if err != nil {
		h.logger.Debug("dropping next", zap.Error(err))
		return u.String(), nil
	}
	q := u.Query()
	q.Set(ParamNext, safe)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
