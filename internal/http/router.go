package httpx

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/mlehotskylf-org/marketplace-edge/internal/auth"
	"github.com/mlehotskylf-org/marketplace-edge/internal/config"
	"github.com/mlehotskylf-org/marketplace-edge/internal/logging"
	"github.com/mlehotskylf-org/marketplace-edge/internal/routing"
)

// Options are the router's collaborators.
type Options struct {
	Logger *zap.Logger
	// Provider is nil when the identity provider is not configured; the
	// pipeline then lets every request through.
	Provider auth.Provider
	// Upstream receives rewritten requests. Nil proxies to cfg.UpstreamURL,
	// or echoes the routing decision when that is empty.
	Upstream http.Handler
	// Registry defaults to routing.Default().
	Registry *routing.Registry
}

// NewRouter creates and configures the edge router for cfg.
func NewRouter(cfg config.Config, opts Options) (http.Handler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = routing.Default()
	}

	upstream := opts.Upstream
	if upstream == nil {
		var err error
		if upstream, err = newUpstream(cfg.UpstreamURL, logger); err != nil {
			return nil, err
		}
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	metrics := NewMetrics(promReg)
	provider := Instrument(opts.Provider, metrics)
	origin := originFor(cfg)

	guard := NewSessionGuard(reg, provider, metrics, logger, origin)
	stage := NewLocaleStage(reg, metrics, origin, cfg.CookieDomain, cfg.SecureCookies())
	callback := NewCallbackHandler(reg, provider, metrics, logger, origin)
	signOut := NewSignOutHandler(reg, provider, cfg.SessionCookieOpts(), logger, origin)

	// StartLogin makes no provider round trip, so the raw provider is used.
	var starter loginStarter
	if s, ok := opts.Provider.(loginStarter); ok {
		starter = s
	}
	signIn := NewSignInHandler(reg, starter, cfg.AuthRedirectURL, metrics, logger, origin)

	wellKnown := ""
	if wk, ok := opts.Provider.(interface{ WellKnownURL() string }); ok {
		wellKnown = wk.WellKnownURL()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(stripEdgeHeaders)

	// Add HSTS header if enabled
	if cfg.EnableHSTS {
		r.Use(hstsMiddleware)
	}
	r.Use(canonicalPath(origin))

	health := []healthTarget{
		{name: "identity_provider", url: wellKnown},
		{name: "upstream", url: cfg.UpstreamURL},
	}
	r.Get(RouteHealth, healthzHandler(health, &http.Client{Timeout: healthProbeTimeout}, logger))

	// Metrics endpoint (only in non-prod environments)
	if cfg.Env != "prod" {
		r.Handle(RouteMetrics, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	}

	// Auth endpoints answer on every localized spelling and skip the pipeline.
	for _, p := range localizedPaths(reg, routing.RouteAuthAuthorize) {
		r.Get(p, signIn.ServeHTTP)
	}
	for _, p := range localizedPaths(reg, routing.RouteAuthCallback) {
		r.Get(p, callback.ServeHTTP)
	}
	for _, p := range localizedPaths(reg, routing.RouteAuthSignOut) {
		r.Get(p, signOut.ServeHTTP)
		r.Post(p, signOut.ServeHTTP)
	}

	r.With(Matcher(reg, Intercept(guard, stage, logger))).Handle("/*", upstream)

	// Extract inbound trace context so provider and upstream calls continue it.
	return otelhttp.NewHandler(r, "edge",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	), nil
}

// hstsMiddleware adds the Strict-Transport-Security header
func hstsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// originFor returns the absolute origin redirects are built on, or "" for
// host-relative redirects when APP_HOSTNAME is unset.
func originFor(cfg config.Config) string {
	if cfg.AppHostname == "" {
		return ""
	}
	// Use HTTP for localhost in dev mode, HTTPS for everything else
	if cfg.Env == "dev" && config.IsLocalhost(cfg.AppHostname) {
		return "http://" + cfg.AppHostname + ":" + cfg.Port
	}
	return "https://" + cfg.AppHostname
}

// localizedPaths lists the internal path of key and its public path in every
// locale, without duplicates.
func localizedPaths(reg *routing.Registry, key routing.RouteKey) []string {
	seen := map[string]bool{}
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	add(reg.Internal(key))
	for _, l := range reg.Locales() {
		add(reg.Localize(key, l))
	}
	return paths
}

// newUpstream proxies to rawURL, or echoes the routing decision as JSON when
// rawURL is empty.
func newUpstream(rawURL string, logger *zap.Logger) (http.Handler, error) {
	if rawURL == "" {
		return http.HandlerFunc(echoHandler), nil
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}

	return &httputil.ReverseProxy{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Rewrite:   func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("upstream request failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			BadGateway(w, r)
		},
	}, nil
}

// echoHandler describes what the upstream would have received.
func echoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"path":    r.URL.Path,
		"locale":  r.Header.Get(HeaderEdgeLocale),
		"route":   r.Header.Get(HeaderEdgeRoute),
		"session": r.Header.Get(HeaderEdgeSession),
	})
}
