// internal/app/features/transactions/handler.go
package transactions

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/transactions"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Log          *zap.Logger
	Transactions *transactions.Service
}

func NewHandler(svc *transactions.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Log:          logger,
		Transactions: svc,
	}
}

// transactionRequest accepts the amount as a JSON number or a numeric
// string.
type transactionRequest struct {
	Amount        json.Number `json:"amount"`
	Type          string      `json:"type"`
	CategoryID    string      `json:"category_id"`
	Description   string      `json:"description"`
	PaymentMethod string      `json:"payment_method"`
	Date          string      `json:"date"`
}

// ServeList handles GET /transactions.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Transactions.List(ctx, u.ID)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /transactions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	var req transactionRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tx, err := h.Transactions.Add(ctx, u.ID, transactions.NewTransaction{
		Amount:        req.Amount.String(),
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Date:          req.Date,
	})
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusCreated, tx)
}

// HandleDelete handles DELETE /transactions/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Transactions.Delete(ctx, u.ID, chi.URLParam(r, "id")); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
