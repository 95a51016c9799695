package categories

import (
	"context"
	"net/http"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /categories: every category, active or not,
// ordered by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Categories.List(ctx, u.ID)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, list)
}

// ServeActive handles GET /categories/active?type=expense: the categories
// offered when recording a transaction of that type.
func (h *Handler) ServeActive(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Categories.ListActive(ctx, u.ID, query.Get(r, "type"))
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, list)
}
