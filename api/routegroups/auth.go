package routegroups

import (
	"github.com/go-chi/chi/v5"
	"ministore/api/handlers"
)

func RegisterAuth(apiRouter chi.Router, g Guards, h *handlers.AuthHandler) {
	apiRouter.MethodFunc("GET", "/users/check-id", h.CheckID)
	apiRouter.Route("/auth", func(auth chi.Router) {
		auth.MethodFunc("POST", "/register", h.Register)
		auth.MethodFunc("POST", "/login", g.Limited(h.Login))
		auth.MethodFunc("POST", "/logout", g.Optional(h.Logout))
		auth.MethodFunc("GET", "/me", g.SessionPerm("profile.view", h.Me))
		auth.MethodFunc("PUT", "/profile", g.SessionPerm("profile.edit", h.UpdateProfile))
		auth.MethodFunc("POST", "/password", g.Session(h.ChangePassword))
	})
}
