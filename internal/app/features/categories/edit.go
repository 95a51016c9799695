package categories

import (
	"context"
	"net/http"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/categories"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleCreate handles POST /categories.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	var req categoryRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Categories.Add(ctx, u.ID, categories.NewCategory{
		Name:  deref(req.Name),
		Type:  deref(req.Type),
		Icon:  deref(req.Icon),
		Color: deref(req.Color),
	})
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusCreated, c)
}

// HandleUpdate handles PATCH /categories/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	var req categoryRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Categories.Update(ctx, u.ID, chi.URLParam(r, "id"), categories.CategoryUpdate{
		Name:   req.Name,
		Type:   req.Type,
		Icon:   req.Icon,
		Color:  req.Color,
		Status: req.Status,
	})
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, c)
}

// HandleDeactivate handles POST /categories/{id}/deactivate, the soft
// delete offered to users. Existing transactions keep their reference.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Categories.Deactivate(ctx, u.ID, chi.URLParam(r, "id")); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /categories/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Categories.Delete(ctx, u.ID, chi.URLParam(r, "id")); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
