package profile_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/profile"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/profiles"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/audit"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*profile.Handler, *testutil.Fixtures, testutil.TestUser) {
	t.Helper()
	fx := testutil.NewFixtures(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Ann Lee", "ann@example.com")
	h := profile.NewHandler(testutil.NewSessionManager(t), fx.Profiles, nil, zap.NewNop())
	return h, fx, u
}

func TestServeProfile(t *testing.T) {
	h, _, u := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeProfile(rec, testutil.NewAuthenticatedRequest("GET", "/profile", u))
	rec.AssertStatus(t, http.StatusOK)

	var got models.Profile
	rec.DecodeJSON(t, &got)
	if got.ID != u.ID || got.Email != "ann@example.com" || got.Settings.Theme != models.ThemeLight {
		t.Errorf("profile = %+v", got)
	}
}

func TestServeProfile_NoUser(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := testutil.NewRecorder()
	h.ServeProfile(rec, testutil.NewRequest("GET", "/profile"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleUpdateSettings(t *testing.T) {
	h, fx, u := newTestHandler(t)

	store := audit.New(fx.Store)
	h.AuditLog = auditlog.New(store, zap.NewNop(), auditlog.Config{})

	req := testutil.WithUser(testutil.NewJSONRequest(t, "PATCH", "/profile/settings", map[string]string{
		"currency": "eur",
		"theme":    "dark",
	}), u)
	rec := testutil.NewRecorder()
	h.HandleUpdateSettings(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got models.Profile
	rec.DecodeJSON(t, &got)
	if got.Settings.Currency != "EUR" || got.Settings.Theme != models.ThemeDark || got.Settings.Language != "en" {
		t.Errorf("settings = %+v", got.Settings)
	}

	events, err := store.GetByUser(context.Background(), u.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].EventType != "settings_updated" {
		t.Errorf("audit events = %+v", events)
	}
}

func TestHandleUpdateSettings_Invalid(t *testing.T) {
	h, _, u := newTestHandler(t)

	req := testutil.WithUser(testutil.NewJSONRequest(t, "PATCH", "/profile/settings", map[string]string{"theme": "neon"}), u)
	rec := testutil.NewRecorder()
	h.HandleUpdateSettings(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, profiles.ErrInvalidTheme.Msg)
}

func TestHandleDeleteAccount(t *testing.T) {
	h, fx, u := newTestHandler(t)
	ctx := context.Background()
	fx.CreateTask(ctx, u, "Pay rent")

	rec := testutil.NewRecorder()
	h.HandleDeleteAccount(rec, testutil.NewAuthenticatedRequest("DELETE", "/profile", u))
	rec.AssertStatus(t, http.StatusNoContent)

	if fx.Store.Len() != 0 {
		t.Errorf("store has %d docs after account deletion", fx.Store.Len())
	}
	if _, err := fx.Identity.Lookup(ctx, u.ID); err != identity.ErrNotFound {
		t.Errorf("identity lookup err = %v, want ErrNotFound", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expired cookie, got %+v", cookies)
	}
}
