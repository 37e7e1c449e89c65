package httpx

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status string            `json:"status"`           // "ok" or "degraded"
	Checks map[string]string `json:"checks,omitempty"` // Only included in deep health checks
}

// healthProbeTimeout bounds each dependency probe.
const healthProbeTimeout = 5 * time.Second

// healthTarget is a dependency probed by the deep health check. An empty URL
// means the dependency is not configured.
type healthTarget struct {
	name string
	url  string
}

// healthzHandler returns 200 {"status":"ok"} for liveness checks.
// ?check=deep additionally probes every target concurrently. Unconfigured
// targets are reported as "disabled" and do not degrade.
func healthzHandler(targets []healthTarget, client *http.Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("check") != "deep" {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}

		checks := map[string]string{"routing": "ok"}
		status := HealthStatus{Status: "ok", Checks: checks}

		var mu sync.Mutex
		var g errgroup.Group
		for _, target := range targets {
			if target.url == "" {
				mu.Lock()
				checks[target.name] = "disabled"
				mu.Unlock()
				continue
			}
			g.Go(func() error {
				err := probe(r.Context(), client, target.url)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					checks[target.name] = fmt.Sprintf("unreachable: %v", err)
					status.Status = "degraded"
					logger.Warn("health check failed", zap.String("dependency", target.name), zap.Error(err))
					return nil
				}
				checks[target.name] = "ok"
				return nil
			})
		}
		_ = g.Wait()

		if status.Status != "ok" {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

// probe makes a HEAD request to url. 405 counts as reachable since some
// servers don't support HEAD.
func probe(ctx context.Context, client *http.Client, url string) error {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusMethodNotAllowed {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}
