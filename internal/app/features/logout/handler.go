package logout

import (
	"context"
	"net/http"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Identity   identity.Provider
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, ids identity.Provider, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Identity:   ids,
		AuditLog:   audit,
	}
}

// ServeLogout handles POST /logout. The cookie is cleared even when the
// identity provider reports an error.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if u, ok := auth.CurrentUser(r); ok {
		if h.Identity != nil {
			if err := h.Identity.SignOut(ctx, u.ID); err != nil {
				h.Log.Warn("logout: identity sign-out", zap.Error(err), zap.String("user_id", u.ID))
			}
		}
		h.AuditLog.Logout(ctx, r, u.ID)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
