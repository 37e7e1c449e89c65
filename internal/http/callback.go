package httpx

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
	"github.com/mlehotskylf-org/marketplace-edge/internal/security"
)

// CallbackHandler completes the identity provider redirect: it exchanges the
// authorization code for a session and sends the browser to its destination.
type CallbackHandler struct {
	registry *routing.Registry
	provider auth.Provider
	metrics  *Metrics
	logger   *zap.Logger
	origin   string
}

// NewCallbackHandler builds the callback handler. A nil provider sends every
// callback to the error page.
func NewCallbackHandler(reg *routing.Registry, provider auth.Provider, m *Metrics, logger *zap.Logger, origin string) *CallbackHandler {
	return &CallbackHandler{
		registry: reg,
		provider: provider,
		metrics:  m,
		logger:   logger,
		origin:   origin,
	}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	locale := h.registry.ResolveRequest(r)
	errorDest := h.registry.Localize(routing.RouteAuthError, locale)
	res := NewResult()

	q := r.URL.Query()
	code := q.Get("code")
	switch {
	case h.provider == nil:
		h.logger.Warn("callback without identity provider configuration")
		h.metrics.callback(callbackNotConfigured)
		h.redirect(w, res, errorDest)
		return
	case q.Get("error") != "":
		// error_description is provider-controlled text; only the code is logged.
		h.logger.Info("identity provider returned error", zap.String("error", q.Get("error")))
		h.metrics.callback(callbackIdPError)
		h.redirect(w, res, errorDest)
		return
	case code == "":
		h.metrics.callback(callbackMissingCode)
		h.redirect(w, res, errorDest)
		return
	}

	dest := h.registry.Localize(routing.RouteDashboard, locale)
	if next := q.Get(ParamNext); next != "" {
		if d, err := h.destination(next, locale); err != nil {
			h.logger.Debug("ignoring next", zap.Error(err))
			h.metrics.callback(callbackBadNext)
		} else {
			dest = d
		}
	}

	_, set, err := h.provider.ExchangeCode(r.Context(), code, r.Cookies())
	for _, c := range set {
		res.SetCookie(c)
	}
	if err != nil {
		h.logger.Warn("code exchange failed", zap.Error(err))
		h.metrics.callback(callbackExchangeFail)
		h.redirect(w, res, errorDest)
		return
	}

	h.metrics.callback(callbackOK)
	h.redirect(w, res, dest)
}

// destination validates next and re-localizes it when it names a known route.
// Unknown same-site paths are used as given.
func (h *CallbackHandler) destination(next string, locale routing.Locale) (string, error) {
	safe, err := security.SanitizeNextPath(next)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(safe)
	if err != nil {
		return "", err
	}

	norm := h.registry.Normalize(u.Path)
	key, params, ok := h.registry.MatchAny(norm.Path)
	if !ok {
		return safe, nil
	}
	p, err := h.registry.LocalizeWith(key, locale, params)
	if err != nil {
		return safe, nil
	}
	return withQuery(p, u.RawQuery), nil
}

func (h *CallbackHandler) redirect(w http.ResponseWriter, res *Result, dest string) {
	res.Redirect(http.StatusSeeOther, h.origin+dest)
	res.Write(w)
}
