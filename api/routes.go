package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"ministore/api/handlers"
	"ministore/api/routegroups"
	"ministore/core/rbac"
)

func (s *Server) registerRoutes() {
	s.router.Use(s.recoverMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.securityHeadersMiddleware)

	s.registerObservabilityRoutes()

	guards := routegroups.Guards{
		WithSession:       s.withSession,
		OptionalSession:   s.optionalSession,
		RequirePermission: s.permissionGuard,
		RateLimit:         s.rateLimitMiddleware,
	}
	svc := s.svc

	apiRouter := chi.NewRouter()
	routegroups.RegisterAuth(apiRouter, guards,
		handlers.NewAuthHandler(s.cfg, svc.Directory, svc.Sessions, svc.Activity, svc.Policy, s.metrics, s.logger))
	routegroups.RegisterStorefront(apiRouter, guards, routegroups.Storefront{
		Products: handlers.NewProductsHandler(svc.Catalog, s.logger),
		Cart:     handlers.NewCartHandler(s.cfg, svc.Carts, svc.Catalog, s.metrics, s.logger),
		Orders:   handlers.NewOrdersHandler(s.cfg, svc.Orders, s.metrics, s.logger),
		Content:  handlers.NewContentHandler(svc.Mailer, svc.Activity, s.metrics, s.logger),
	})
	routegroups.RegisterAdmin(apiRouter, guards,
		handlers.NewAdminUsersHandler(svc.Directory, s.logger),
		handlers.NewAdminHandler(svc.Directory, svc.Catalog, svc.Activity, svc.Policy, s.logger))
	s.router.Mount("/api", apiRouter)
}

// permissionGuard resolves a route's permission name once, at registration,
// so a typo fails at startup instead of denying every request.
func (s *Server) permissionGuard(name string) func(http.HandlerFunc) http.HandlerFunc {
	perm := rbac.Permission(name)
	if !rbac.IsKnownPermission(perm) {
		panic(fmt.Sprintf("route guarded by unknown permission %q", name))
	}
	return s.requirePermission(perm)
}
