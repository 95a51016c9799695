// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/audit"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destination modes for a category.
const (
	ModeAll = "all" // store + zap
	ModeDB  = "db"  // store only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config selects where each category of event goes.
type Config struct {
	Auth    string
	Account string
}

// Logger records audit events to the audit store and/or zap.
// A nil *Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryAccount:
		m = l.config.Account
	}
	if m == "" {
		return ModeAll
	}
	return m
}

// Log records event according to the category's mode. Store failures are
// logged and swallowed; auditing never fails a request.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	m := l.mode(event.Category)
	if m == ModeOff {
		return
	}
	if m == ModeAll || m == ModeLog {
		l.logToZap(event)
	}
	if (m == ModeAll || m == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) logToZap(e audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", e.Category),
		zap.String("event_type", e.EventType),
		zap.Bool("success", e.Success),
		zap.String("ip", e.IP),
	}
	if e.UserID != "" {
		fields = append(fields, zap.String("user_id", e.UserID))
	}
	if e.Method != "" {
		fields = append(fields, zap.String("method", e.Method))
	}
	if e.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", e.FailureReason))
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if e.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func fromRequest(r *http.Request, category, eventType string) audit.Event {
	e := audit.Event{Category: category, EventType: eventType}
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication Events ---

func (l *Logger) SignupSuccess(ctx context.Context, r *http.Request, userID, email string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventSignupSuccess)
	e.UserID, e.Email, e.Method, e.Success = userID, email, "password", true
	l.Log(ctx, e)
}

func (l *Logger) SignupFailed(ctx context.Context, r *http.Request, email, reason string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventSignupFailed)
	e.Email, e.Method, e.FailureReason = email, "password", reason
	l.Log(ctx, e)
}

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, method string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID, e.Method, e.Success = userID, method, true
	l.Log(ctx, e)
}

// LoginFailed records a rejected credential. The attempted email is kept
// so repeated attacks on one account are visible.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, method string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailedCredentials)
	e.Email, e.Method, e.FailureReason = email, method, "invalid credentials"
	l.Log(ctx, e)
}

func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit)
	e.Email, e.FailureReason = email, "rate limited"
	l.Log(ctx, e)
}

// LoginProfileFailed records a sign-in refused because the profile could
// not be reconciled.
func (l *Logger) LoginProfileFailed(ctx context.Context, r *http.Request, email, method string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailedProfile)
	e.Email, e.Method, e.FailureReason = email, method, "profile reconcile failed"
	l.Log(ctx, e)
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLogout)
	e.UserID, e.Success = userID, true
	l.Log(ctx, e)
}

// --- Account Events ---

func (l *Logger) SettingsUpdated(ctx context.Context, r *http.Request, userID string, fields map[string]string) {
	e := fromRequest(r, audit.CategoryAccount, audit.EventSettingsUpdated)
	e.UserID, e.Success, e.Details = userID, true, fields
	l.Log(ctx, e)
}

func (l *Logger) AccountDeleted(ctx context.Context, r *http.Request, userID string) {
	e := fromRequest(r, audit.CategoryAccount, audit.EventAccountDeleted)
	e.UserID, e.Success = userID, true
	l.Log(ctx, e)
}
