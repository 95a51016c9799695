package tasks

import (
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /tasks.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeTask)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/status", h.HandleStatus)
	r.Get("/{id}/history", h.ServeHistory)
	return r
}
