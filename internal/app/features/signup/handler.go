// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"net/http"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/profiles"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"go.uber.org/zap"
)

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

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type signupResponse struct {
	Profile *models.Profile `json:"profile"`
}

// HandleSignup handles POST /signup. On success the new user is signed in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := uierrors.Decode(r, &req); err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Profiles.Signup(ctx, profiles.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.ConfirmPassword,
		Name:     req.Name,
	})
	if err != nil {
		h.AuditLog.SignupFailed(ctx, r, req.Email, apperr.KindOf(err).String())
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, res.Identity.ID); err != nil {
		// the account exists; the client can sign in normally
		h.Log.Error("signup: save session", zap.Error(err), zap.String("user_id", res.Identity.ID))
	}
	h.AuditLog.SignupSuccess(ctx, r, res.Identity.ID, res.Profile.Email)
	uierrors.JSON(w, http.StatusCreated, signupResponse{Profile: res.Profile})
}
