package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"ministore/api/handlers"
	"ministore/config"
	"ministore/core/bootstrap"
	"ministore/core/utils"
)

type Server struct {
	cfg        *config.AppConfig
	router     chi.Router
	httpServer *http.Server
	logger     *utils.Logger
	db         *sql.DB
	svc        *bootstrap.Services
	limiter    *requestLimiter
	registry   *prometheus.Registry
	metrics    *handlers.Metrics
}

func NewServer(cfg *config.AppConfig, logger *utils.Logger, deps ServerDeps) *Server {
	svc := deps.Services
	if svc == nil {
		svc = bootstrap.NewServices(cfg, deps.DB, logger)
	}
	perMin := cfg.Security.LoginRatePerMin
	if perMin <= 0 {
		perMin = 20
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		db:       deps.DB,
		svc:      svc,
		limiter:  newLimiter(perMin, time.Minute),
		registry: reg,
		metrics:  handlers.NewMetrics(reg),
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	s.logger.Printf("listening on %s", s.cfg.ListenAddr)
	var err error
	if s.cfg.TLSEnabled {
		err = s.httpServer.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
