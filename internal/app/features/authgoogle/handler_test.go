package authgoogle_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/authgoogle"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/oauthstate"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, userInfo map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	h      *authgoogle.Handler
	fx     *testutil.Fixtures
	states *oauthstate.Store
}

func newHarness(t *testing.T, srv *httptest.Server, configured bool) harness {
	t.Helper()
	fx := testutil.NewFixtures(t)
	fx.Profiles.Watch(fx.Identity)
	states := oauthstate.New(fx.Store)

	cfg := authgoogle.Config{BaseURL: "http://localhost:8080"}
	if configured {
		cfg.ClientID = "test-client-id"
		cfg.ClientSecret = "test-client-secret"
	}
	if srv != nil {
		cfg.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
		cfg.UserInfoURL = srv.URL + "/userinfo"
	}
	h := authgoogle.NewHandler(cfg, testutil.NewSessionManager(t), fx.Identity, states, nil, nil, zap.NewNop())
	return harness{h: h, fx: fx, states: states}
}

func TestIsConfigured(t *testing.T) {
	if !newHarness(t, nil, true).h.IsConfigured() {
		t.Error("IsConfigured() should return true with client ID and secret")
	}
	if newHarness(t, nil, false).h.IsConfigured() {
		t.Error("IsConfigured() should return false without credentials")
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	hs := newHarness(t, nil, false)
	rec := httptest.NewRecorder()
	hs.h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "google_not_configured") {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeLogin_RedirectsWithStoredState(t *testing.T) {
	srv := fakeGoogle(t, nil)
	hs := newHarness(t, srv, true)

	rec := httptest.NewRecorder()
	hs.h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google?return=/tasks", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, srv.URL+"/auth?") {
		t.Fatalf("Location = %q", loc)
	}
	req := httptest.NewRequest("GET", loc, nil)
	state := req.URL.Query().Get("state")
	if state == "" {
		t.Fatal("no state in consent URL")
	}

	ret, valid, err := hs.states.Validate(context.Background(), state)
	if err != nil || !valid || ret != "/tasks" {
		t.Errorf("Validate = %q, %v, %v", ret, valid, err)
	}
}

func TestServeCallback_SignsInAndProvisions(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{
		"id":             "g-123",
		"email":          "ann@example.com",
		"verified_email": true,
		"name":           "Ann Lee",
		"picture":        "https://example.com/a.png",
	})
	hs := newHarness(t, srv, true)
	ctx := context.Background()
	if err := hs.states.Save(ctx, "st1", "", time.Now().Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	hs.h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?state=st1&code=abc", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (Location %q)", rec.Code, http.StatusSeeOther, rec.Header().Get("Location"))
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}

	var sawIdentity *identity.Identity
	hs.fx.Identity.OnIdentityChanged(func(_ context.Context, id *identity.Identity) error {
		sawIdentity = id
		return nil
	})
	id, err := hs.fx.Identity.SignInExternal(ctx, identity.ExternalProfile{Provider: identity.ProviderGoogle, Subject: "g-123"})
	if err != nil {
		t.Fatal(err)
	}
	if sawIdentity == nil || sawIdentity.ID != id.ID {
		t.Fatalf("listener saw %+v", sawIdentity)
	}
	prof, err := hs.fx.Profiles.Get(ctx, id.ID)
	if err != nil {
		t.Fatalf("profile not provisioned: %v", err)
	}
	if prof.Name != "Ann Lee" || prof.AvatarURL != "https://example.com/a.png" {
		t.Errorf("profile = %+v", prof)
	}
	cats, _ := hs.fx.Categories.List(ctx, id.ID)
	if len(cats) != 3 {
		t.Errorf("default categories = %d, want 3", len(cats))
	}
}

func TestServeCallback_Errors(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"id": "g-1", "email": "x@example.com"})

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"provider error", "/cb?error=access_denied", "google_denied"},
		{"missing state", "/cb?code=abc", "invalid_state"},
		{"unknown state", "/cb?state=nope&code=abc", "invalid_state"},
		{"missing code", "/cb?state=st1", "invalid_code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := newHarness(t, srv, true)
			if err := hs.states.Save(context.Background(), "st1", "", time.Now().Add(time.Minute)); err != nil {
				t.Fatal(err)
			}
			rec := httptest.NewRecorder()
			hs.h.ServeCallback(rec, httptest.NewRequest("GET", tt.target, nil))
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/login?error="+tt.want {
				t.Errorf("Location = %q, want error=%s", loc, tt.want)
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Error("failed callback must not set a cookie")
			}
		})
	}
}

func TestServeCallback_StateIsSingleUse(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"id": "g-1", "email": "x@example.com", "name": "Xavier"})
	hs := newHarness(t, srv, true)
	if err := hs.states.Save(context.Background(), "st1", "", time.Now().Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	first := httptest.NewRecorder()
	hs.h.ServeCallback(first, httptest.NewRequest("GET", "/cb?state=st1&code=abc", nil))
	if first.Header().Get("Location") != "/dashboard" {
		t.Fatalf("first callback Location = %q", first.Header().Get("Location"))
	}

	second := httptest.NewRecorder()
	hs.h.ServeCallback(second, httptest.NewRequest("GET", "/cb?state=st1&code=abc", nil))
	if loc := second.Header().Get("Location"); loc != "/login?error=invalid_state" {
		t.Errorf("replayed callback Location = %q", loc)
	}
}
