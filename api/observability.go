package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"ministore/core/store"
)

var processStartedAt = time.Now().UTC()

const readinessTimeout = 2 * time.Second

func (s *Server) registerObservabilityRoutes() {
	s.router.MethodFunc("GET", "/healthz", s.healthz)
	s.router.MethodFunc("GET", "/readyz", s.readyz)
	if s.cfg == nil || !s.cfg.Observability.MetricsEnabled {
		return
	}
	s.registerStoreMetrics(s.registry)
	handler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.router.Method("GET", "/metrics", s.requireMetricsAuth(handler))
}

// registerStoreMetrics adds runtime collectors and the storefront gauges to
// reg. The request counters in handlers.Metrics share the same registry.
func (s *Server) registerStoreMetrics(reg *prometheus.Registry) {
	_ = reg.Register(collectors.NewGoCollector())
	_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ministore_uptime_seconds",
		Help: "Process uptime in seconds.",
	}, func() float64 {
		return time.Since(processStartedAt).Seconds()
	}))
	reg.MustRegister(newStoreMetricsCollector(s.svc))
}

// requireMetricsAuth lets scrapers in with "Authorization: Bearer <token>".
// Without a configured token only a dev instance is scrapeable.
func (s *Server) requireMetricsAuth(next http.Handler) http.Handler {
	token := strings.TrimSpace(s.cfg.Observability.MetricsToken)
	if token == "" {
		if s.cfg.IsDev() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
	expected := []byte("Bearer " + token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), expected) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// healthz only says the process is serving.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSONPlain(w, http.StatusOK, map[string]any{
		"ok":         true,
		"now":        time.Now().UTC().Format(time.RFC3339Nano),
		"uptime_sec": int64(time.Since(processStartedAt).Seconds()),
		"app_env":    s.cfg.AppEnv,
	})
}

// readyz reports whether the store can take traffic: the database answers,
// no migration is pending and the catalog collection loads.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	checks := map[string]string{}
	ok := true
	fail := func(name string, err error) {
		ok = false
		checks[name] = err.Error()
	}

	if s.db == nil {
		writeJSONPlain(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "checks": map[string]string{"db": "not configured"}})
		return
	}
	if err := s.db.PingContext(ctx); err != nil {
		fail("db", err)
	} else {
		checks["db"] = "ok"
		status, err := store.GetMigrationStatus(ctx, s.db)
		switch {
		case err != nil:
			fail("schema", err)
		case status.HasPending:
			ok = false
			checks["schema"] = "pending migrations"
		default:
			checks["schema"] = "ok"
		}
		if _, err := s.svc.Catalog.List(ctx); err != nil {
			fail("catalog", err)
		} else {
			checks["catalog"] = "ok"
		}
	}

	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
		s.logger.Warnf("readiness failed: %v", checks)
	}
	writeJSONPlain(w, code, map[string]any{"ok": ok, "checks": checks})
}

func writeJSONPlain(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
