package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsEndpointDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observability.MetricsEnabled = false
	s := newTestServer(t, cfg)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMetricsEndpointRequiresTokenOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.AppEnv = "prod"
	s := newTestServer(t, cfg)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestMetricsEndpointOpenInDevWithoutToken(t *testing.T) {
	s := newTestServer(t, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "ministore_uptime_seconds") {
		t.Fatalf("expected uptime gauge in metrics output")
	}
}

func TestMetricsEndpointTokenAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.AppEnv = "prod"
	cfg.Observability.MetricsToken = "0123456789abcdef0123456789abcdef"
	s := newTestServer(t, cfg)

	rrDenied := httptest.NewRecorder()
	s.Handler().ServeHTTP(rrDenied, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rrDenied.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rrDenied.Code)
	}

	rrOK := httptest.NewRecorder()
	reqOK := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	reqOK.Header.Set("Authorization", "Bearer "+cfg.Observability.MetricsToken)
	s.Handler().ServeHTTP(rrOK, reqOK)
	if rrOK.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rrOK.Code, rrOK.Body.String())
	}
	if !strings.Contains(rrOK.Body.String(), `ministore_accounts{status="pending"} 1`) {
		t.Fatalf("expected seeded pending account in store metrics:\n%s", rrOK.Body.String())
	}
}

func TestLoginCounters(t *testing.T) {
	s := newTestServer(t, nil)
	c := newClient(t, s)
	c.mustLogin("aaa", "aaa")
	c.login("aaa", "wrong-password")
	c.login("ccc", "ccc")

	if got := testutil.ToFloat64(s.metrics.Logins.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 successful login, got %v", got)
	}
	if got := testutil.ToFloat64(s.metrics.Logins.WithLabelValues("bad_credential")); got != 1 {
		t.Fatalf("expected 1 bad credential, got %v", got)
	}
	if got := testutil.ToFloat64(s.metrics.Logins.WithLabelValues("pending_approval")); got != 1 {
		t.Fatalf("expected 1 pending refusal, got %v", got)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestReadinessReportsChecks(t *testing.T) {
	s := newTestServer(t, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	var body struct {
		OK     bool              `json:"ok"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK {
		t.Fatalf("expected ready, got %+v", body)
	}
	for _, name := range []string{"db", "schema", "catalog"} {
		if body.Checks[name] != "ok" {
			t.Fatalf("check %s: %q", name, body.Checks[name])
		}
	}
}

func TestReadinessFailsWithPendingMigrations(t *testing.T) {
	s := newTestServer(t, nil)
	if _, err := s.db.ExecContext(context.Background(), `DELETE FROM goose_db_version`); err != nil {
		t.Fatalf("reset versions: %v", err)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "pending migrations") {
		t.Fatalf("expected schema failure, got %s", rr.Body.String())
	}
}

func TestMetricsEndpointChecksBearerToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.AppEnv = "prod"
	cfg.Observability.MetricsToken = "scrape-secret"
	s := newTestServer(t, cfg)
	cases := map[string]int{
		"":                     http.StatusUnauthorized,
		"Bearer wrong-secret":  http.StatusUnauthorized,
		"scrape-secret":        http.StatusUnauthorized,
		"Bearer scrape-secret": http.StatusOK,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("authorization %q: expected %d, got %d", header, want, rr.Code)
		}
	}
}
