// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/metrics"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/ratelimit"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Identity   identity.Provider
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	ids identity.Provider,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Identity:   ids,
		Limiter:    limiter,
		AuditLog:   audit,
		Metrics:    m,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleLogin handles POST /login.
//
// The identity provider runs its change listeners (profile reconcile)
// before returning, so a session is only issued for an identity that has
// a profile.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, req.Email); !ok {
			h.AuditLog.LoginRateLimited(ctx, r, req.Email)
			h.Metrics.Login(identity.ProviderPassword, metrics.OutcomeRateLimited)
			uierrors.JSON(w, http.StatusTooManyRequests, map[string]string{"error": reason, "kind": "rate_limited"})
			return
		}
	}

	id, err := h.Identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			h.AuditLog.LoginFailed(ctx, r, req.Email, identity.ProviderPassword)
			h.Metrics.Login(identity.ProviderPassword, metrics.OutcomeAuth)
		case apperr.KindOf(err) == apperr.Auth:
			h.Metrics.Login(identity.ProviderPassword, metrics.OutcomeAuth)
		default:
			h.Log.Warn("sign-in refused", zap.Error(err))
			h.AuditLog.LoginProfileFailed(ctx, r, req.Email, identity.ProviderPassword)
			h.Metrics.Login(identity.ProviderPassword, metrics.OutcomeProvisioning)
		}
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(req.Email)
	}
	if err := h.SessionMgr.SignIn(w, r, id.ID); err != nil {
		h.Log.Error("login: save session", zap.Error(err), zap.String("user_id", id.ID))
		uierrors.Respond(w, r, h.Log, apperr.Wrap(apperr.Internal, "Could not start your session. Please try again.", err))
		return
	}
	h.AuditLog.LoginSuccess(ctx, r, id.ID, identity.ProviderPassword)
	h.Metrics.Login(identity.ProviderPassword, metrics.OutcomeOK)
	uierrors.JSON(w, http.StatusOK, userResponse{ID: id.ID, Email: id.Email, Name: id.DisplayName})
}
