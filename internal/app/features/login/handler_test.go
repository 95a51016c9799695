package login_test

import (
	"net/http"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/login"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/ratelimit"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/paths"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	fx := testutil.NewFixtures(t)
	fx.Profiles.Watch(fx.Identity)
	h := login.NewHandler(testutil.NewSessionManager(t), fx.Identity, limiter, nil, nil, zap.NewNop())
	return h, fx
}

func post(t *testing.T, h *login.Handler, email, password string) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/login", map[string]string{"email": email, "password": password})
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func TestHandleLogin_Success(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Ann Lee", "ann@example.com")

	rec := post(t, h, "ANN@example.com", "secret1")
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	rec.DecodeJSON(t, &body)
	if body.ID != u.ID || body.Email != "ann@example.com" {
		t.Errorf("body = %+v", body)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "Ann Lee", "ann@example.com")

	rec := post(t, h, "ann@example.com", "nope-nope")
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, `"kind":"auth"`)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed login must not set a cookie")
	}
}

func TestHandleLogin_RecreatesMissingProfile(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Ann Lee", "ann@example.com")
	if err := fx.Store.Delete(ctx, paths.Profile(u.ID)); err != nil {
		t.Fatal(err)
	}

	post(t, h, "ann@example.com", "secret1").AssertStatus(t, http.StatusOK)

	if _, err := fx.Profiles.Get(ctx, u.ID); err != nil {
		t.Fatalf("profile not recreated: %v", err)
	}
}

func TestHandleLogin_RateLimited(t *testing.T) {
	h, fx := newTestHandler(t, ratelimit.NewLoginLimiter(100, 2))
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "Ann Lee", "ann@example.com")

	post(t, h, "ann@example.com", "bad-one").AssertStatus(t, http.StatusUnauthorized)
	post(t, h, "ann@example.com", "bad-two").AssertStatus(t, http.StatusUnauthorized)

	rec := post(t, h, "ann@example.com", "secret1")
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertContains(t, "rate_limited")
}

func TestHandleLogin_BadBody(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	req := testutil.NewRequest("POST", "/login")
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
