package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
)

// Guard outcomes.
const (
	outcomePass  = "pass"  // not protected
	outcomeAllow = "allow" // protected, user present
	outcomeDeny  = "deny"  // protected, redirected to login
	outcomeOpen  = "open"  // no provider configured
	outcomeError = "error" // provider failure
)

// Callback outcomes.
const (
	callbackOK            = "ok"
	callbackMissingCode   = "missing_code"
	callbackIdPError      = "idp_error"
	callbackNotConfigured = "not_configured"
	callbackExchangeFail  = "exchange_failed"
	callbackBadNext       = "bad_next"
)

// Sign-in outcomes.
const (
	signInStarted       = "started"
	signInNotConfigured = "not_configured"
	signInError         = "error"
)

// Metrics holds the edge pipeline's Prometheus collectors.
type Metrics struct {
	GuardOutcomes    *prometheus.CounterVec
	LocaleActions    *prometheus.CounterVec
	CallbackOutcomes *prometheus.CounterVec
	SignInOutcomes   *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. Each router gets its own
// registry so tests can build routers side by side.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GuardOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_guard_outcomes_total",
			Help: "Session guard decisions by outcome",
		}, []string{"outcome"}),
		LocaleActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_locale_actions_total",
			Help: "Locale stage results by action (redirect or rewrite) and locale",
		}, []string{"action", "locale"}),
		CallbackOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_callback_outcomes_total",
			Help: "Auth callback results by outcome",
		}, []string{"outcome"}),
		SignInOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_signin_outcomes_total",
			Help: "Sign-in initiations by outcome",
		}, []string{"outcome"}),
		ProviderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edge_identity_provider_duration_seconds",
			Help:    "Duration of identity provider calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op", "result"}),
	}
}

func (m *Metrics) guard(outcome string) {
	m.GuardOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) locale(action, locale string) {
	m.LocaleActions.WithLabelValues(action, locale).Inc()
}

func (m *Metrics) callback(outcome string) {
	m.CallbackOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) signIn(outcome string) {
	m.SignInOutcomes.WithLabelValues(outcome).Inc()
}

// observeProvider records the duration of an identity provider call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) observeProvider(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ProviderDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

// signOuter is implemented by providers that can end a session remotely.
type signOuter interface {
	SignOut(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error)
}

// instrumentedProvider times every call to the wrapped provider.
type instrumentedProvider struct {
	next    auth.Provider
	metrics *Metrics
}

// Instrument wraps p so its calls are recorded in m. A nil provider stays nil.
func Instrument(p auth.Provider, m *Metrics) auth.Provider {
	if p == nil {
		return nil
	}
	return &instrumentedProvider{next: p, metrics: m}
}

func (p *instrumentedProvider) RefreshClaims(ctx context.Context, cookies []*http.Cookie) (*auth.Claims, []*http.Cookie, error) {
	start := time.Now()
	claims, set, err := p.next.RefreshClaims(ctx, cookies)
	p.metrics.observeProvider("refresh_claims", start, err)
	return claims, set, err
}

func (p *instrumentedProvider) GetUser(ctx context.Context, cookies []*http.Cookie) (*auth.User, error) {
	start := time.Now()
	user, err := p.next.GetUser(ctx, cookies)
	p.metrics.observeProvider("get_user", start, err)
	return user, err
}

func (p *instrumentedProvider) ExchangeCode(ctx context.Context, code string, cookies []*http.Cookie) (*auth.Session, []*http.Cookie, error) {
	start := time.Now()
	session, set, err := p.next.ExchangeCode(ctx, code, cookies)
	p.metrics.observeProvider("exchange_code", start, err)
	return session, set, err
}

// SignOut forwards to the wrapped provider when it supports remote sign-out.
func (p *instrumentedProvider) SignOut(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error) {
	s, ok := p.next.(signOuter)
	if !ok {
		return nil, nil
	}
	start := time.Now()
	set, err := s.SignOut(ctx, cookies)
	p.metrics.observeProvider("sign_out", start, err)
	return set, err
}
