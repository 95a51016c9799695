// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/profiles"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler owns the signed-in user's profile endpoints.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Profiles   *profiles.Service
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, svc *profiles.Service, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Profiles:   svc,
		AuditLog:   audit,
	}
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	prof, err := h.Profiles.Get(ctx, u.ID)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, prof)
}

type settingsRequest struct {
	Currency *string `json:"currency"`
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
}

// HandleUpdateSettings handles PATCH /profile/settings. Omitted fields are
// left unchanged.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	var req settingsRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	prof, err := h.Profiles.UpdateSettings(ctx, u.ID, profiles.SettingsUpdate{
		Currency: req.Currency,
		Language: req.Language,
		Theme:    req.Theme,
	})
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	changed := map[string]string{}
	if req.Currency != nil {
		changed["currency"] = prof.Settings.Currency
	}
	if req.Language != nil {
		changed["language"] = prof.Settings.Language
	}
	if req.Theme != nil {
		changed["theme"] = string(prof.Settings.Theme)
	}
	h.AuditLog.SettingsUpdated(ctx, r, u.ID, changed)
	uierrors.JSON(w, http.StatusOK, prof)
}

// HandleDeleteAccount handles DELETE /profile: everything the user owns,
// the identity and the session are removed.
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Profiles.DeleteAccount(ctx, u.ID); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	h.AuditLog.AccountDeleted(ctx, r, u.ID)
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("delete account: clear session", zap.Error(err), zap.String("user_id", u.ID))
	}
	w.WriteHeader(http.StatusNoContent)
}
