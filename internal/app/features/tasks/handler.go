// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/tasks"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/transactions"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Log   *zap.Logger
	Tasks *tasks.Service
}

func NewHandler(svc *tasks.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Log:   logger,
		Tasks: svc,
	}
}

type taskRequest struct {
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
}

// statusRequest moves a task to To. From defaults to the stored status.
type statusRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ServeList handles GET /tasks.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Tasks.List(ctx, u.ID)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, list)
}

// ServeTask handles GET /tasks/{id}.
func (h *Handler) ServeTask(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.Get(ctx, u.ID, chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, t)
}

// HandleCreate handles POST /tasks. due_date takes the same formats as a
// transaction date.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	var req taskRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	var due *time.Time
	if strings.TrimSpace(req.DueDate) != "" {
		d, err := transactions.ParseDate(req.DueDate)
		if err != nil {
			uierrors.Respond(w, r, h.Log, err)
			return
		}
		due = &d
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := h.Tasks.Add(ctx, u.ID, tasks.NewTask{
		Title:    req.Title,
		Notes:    req.Notes,
		DueDate:  due,
		Priority: req.Priority,
	})
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusCreated, t)
}

// HandleStatus handles POST /tasks/{id}/status and returns the updated task.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	var req statusRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	from := req.From
	if strings.TrimSpace(from) == "" {
		cur, err := h.Tasks.Get(ctx, u.ID, id)
		if err != nil {
			uierrors.Respond(w, r, h.Log, err)
			return
		}
		from = string(cur.Status)
	}
	if err := h.Tasks.UpdateStatus(ctx, u.ID, id, from, req.To); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	t, err := h.Tasks.Get(ctx, u.ID, id)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, t)
}

// ServeHistory handles GET /tasks/{id}/history, oldest change first.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Tasks.Get(ctx, u.ID, id); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	hist, err := h.Tasks.History(ctx, u.ID, id)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, hist)
}

// HandleDelete handles DELETE /tasks/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Tasks.Delete(ctx, u.ID, chi.URLParam(r, "id")); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
