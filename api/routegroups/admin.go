package routegroups

import (
	"github.com/go-chi/chi/v5"
	"ministore/api/handlers"
)

func RegisterAdmin(apiRouter chi.Router, g Guards, users *handlers.AdminUsersHandler, admin *handlers.AdminHandler) {
	apiRouter.Route("/admin", func(r chi.Router) {
		r.MethodFunc("GET", "/users", g.SessionPerm("users.view", users.List))
		r.MethodFunc("POST", "/users", g.SessionPerm("users.manage", users.Create))
		r.MethodFunc("GET", "/users/{id}", g.SessionPerm("users.view", users.Get))
		r.MethodFunc("PUT", "/users/{id}", g.SessionPerm("users.manage", users.Update))
		r.MethodFunc("DELETE", "/users/{id}", g.SessionPerm("users.manage", users.Delete))
		r.MethodFunc("POST", "/users/{id}/activate", g.SessionPerm("users.manage", users.Activate))
		r.MethodFunc("POST", "/users/{id}/deactivate", g.SessionPerm("users.manage", users.Deactivate))
		r.MethodFunc("POST", "/users/{id}/lock", g.SessionPerm("users.manage", users.Lock))
		r.MethodFunc("POST", "/users/{id}/unlock", g.SessionPerm("users.manage", users.Unlock))
		r.MethodFunc("POST", "/users/{id}/reset-password", g.SessionPerm("users.manage", users.ResetPassword))

		r.MethodFunc("GET", "/registrations", g.SessionPerm("registrations.manage", users.Registrations))
		r.MethodFunc("POST", "/registrations/{id}/approve", g.SessionPerm("registrations.manage", users.Approve))
		r.MethodFunc("POST", "/registrations/{id}/reject", g.SessionPerm("registrations.manage", users.Reject))

		r.MethodFunc("GET", "/products", g.SessionPerm("products.manage", admin.ListProducts))
		r.MethodFunc("POST", "/products", g.SessionPerm("products.manage", admin.CreateProduct))
		r.MethodFunc("PUT", "/products/{id:[0-9]+}", g.SessionPerm("products.manage", admin.UpdateProduct))
		r.MethodFunc("DELETE", "/products/{id:[0-9]+}", g.SessionPerm("products.manage", admin.DeleteProduct))

		r.MethodFunc("GET", "/roles", g.SessionPerm("users.view", admin.Roles))

		r.MethodFunc("GET", "/logs", g.SessionPerm("logs.view", admin.Logs))
		r.MethodFunc("GET", "/settings/security", g.SessionPerm("settings.manage", admin.SecuritySettings))
		r.MethodFunc("PUT", "/settings/security", g.SessionPerm("settings.manage", admin.SaveSecuritySettings))
	})
}
