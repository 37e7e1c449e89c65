package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return status
}

func TestHealthz_Basic(t *testing.T) {
	h := healthzHandler(nil, http.DefaultClient, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	status := decodeHealth(t, rec)
	assert.Equal(t, "ok", status.Status)
	assert.Empty(t, status.Checks, "basic health check has no checks")
}

func TestHealthz_Deep(t *testing.T) {
	tests := []struct {
		name       string
		idpStatus  int
		disabled   bool
		wantCode   int
		wantStatus string
		wantIdP    string
	}{
		{name: "provider disabled", disabled: true, wantCode: http.StatusOK, wantStatus: "ok", wantIdP: "disabled"},
		{name: "provider reachable", idpStatus: http.StatusOK, wantCode: http.StatusOK, wantStatus: "ok", wantIdP: "ok"},
		{name: "HEAD not allowed", idpStatus: http.StatusMethodNotAllowed, wantCode: http.StatusOK, wantStatus: "ok", wantIdP: "ok"},
		{name: "provider failing", idpStatus: http.StatusBadGateway, wantCode: http.StatusServiceUnavailable, wantStatus: "degraded", wantIdP: "unreachable: unexpected status: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wellKnown := ""
			if !tt.disabled {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, http.MethodHead, r.Method)
					w.WriteHeader(tt.idpStatus)
				}))
				defer srv.Close()
				wellKnown = srv.URL + "/.well-known/openid-configuration"
			}

			targets := []healthTarget{{name: "identity_provider", url: wellKnown}}
			rec := httptest.NewRecorder()
			healthzHandler(targets, http.DefaultClient, zap.NewNop()).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz?check=deep", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			status := decodeHealth(t, rec)
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantIdP, status.Checks["identity_provider"])
			assert.Equal(t, "ok", status.Checks["routing"])
		})
	}
}

func TestHealthz_DeepProbesAllTargets(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer idp.Close()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	targets := []healthTarget{
		{name: "identity_provider", url: idp.URL},
		{name: "upstream", url: upstream.URL},
		{name: "cache", url: ""},
	}
	rec := httptest.NewRecorder()
	healthzHandler(targets, http.DefaultClient, zap.NewNop()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz?check=deep", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	status := decodeHealth(t, rec)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "ok", status.Checks["identity_provider"])
	assert.Equal(t, "unreachable: unexpected status: 503", status.Checks["upstream"])
	assert.Equal(t, "disabled", status.Checks["cache"])
}
