package categories

import (
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /categories.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/active", h.ServeActive)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/deactivate", h.HandleDeactivate)
	return r
}
