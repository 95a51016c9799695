// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/oauthstate"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/metrics"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultUserInfoURL is Google's v2 userinfo endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// stateTTL bounds how long a consent round trip may take.
const stateTTL = 10 * time.Minute

// Config holds the OAuth client settings. Endpoint and UserInfoURL default
// to Google's and are overridden in tests.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // e.g. "https://money.example.com"
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
}

// Handler handles Google OAuth authentication.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Identity   identity.Provider
	StateStore *oauthstate.Store
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics

	oauth       *oauth2.Config
	userInfoURL string
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	cfg Config,
	sessionMgr *auth.SessionManager,
	ids identity.Provider,
	stateStore *oauthstate.Store,
	audit *auditlog.Logger,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfo := cfg.UserInfoURL
	if userInfo == "" {
		userInfo = DefaultUserInfoURL
	}
	var oc *oauth2.Config
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		oc = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: endpoint,
		}
	}
	return &Handler{
		Log:         logger,
		SessionMgr:  sessionMgr,
		Identity:    ids,
		StateStore:  stateStore,
		AuditLog:    audit,
		Metrics:     m,
		oauth:       oc,
		userInfoURL: userInfo,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.oauth != nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Initiates the Google OAuth flow by redirecting to Google's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		redirectToLogin(w, r, "google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}
	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.StateStore.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}

	url := h.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
	h.Log.Debug("initiating Google OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, fetches the Google profile, signs the identity in and    |
| starts a session. The identity listeners provision the profile.              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		redirectToLogin(w, r, "google_not_configured")
		return
	}

	if errParam := query.Get(r, "error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", query.Get(r, "error_description")))
		h.Metrics.Login(identity.ProviderGoogle, metrics.OutcomeDenied)
		redirectToLogin(w, r, "google_denied")
		return
	}

	state := query.Get(r, "state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		redirectToLogin(w, r, "invalid_state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctx, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		redirectToLogin(w, r, "invalid_state")
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		redirectToLogin(w, r, "invalid_code")
		return
	}

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.Metrics.Login(identity.ProviderGoogle, metrics.OutcomeAuth)
		redirectToLogin(w, r, "token_exchange")
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.Metrics.Login(identity.ProviderGoogle, metrics.OutcomeAuth)
		redirectToLogin(w, r, "user_info")
		return
	}

	id, err := h.Identity.SignInExternal(ctx, identity.ExternalProfile{
		Provider:    identity.ProviderGoogle,
		Subject:     info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
		PhotoURL:    info.Picture,
	})
	if err != nil {
		h.Log.Warn("Google sign-in refused", zap.Error(err), zap.String("email", info.Email))
		h.AuditLog.LoginProfileFailed(ctx, r, info.Email, identity.ProviderGoogle)
		h.Metrics.Login(identity.ProviderGoogle, metrics.OutcomeProvisioning)
		redirectToLogin(w, r, "profile")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, id.ID); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", id.ID))
		redirectToLogin(w, r, "session")
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, id.ID, identity.ProviderGoogle)
	h.Metrics.Login(identity.ProviderGoogle, metrics.OutcomeOK)
	h.Log.Info("user logged in via Google OAuth", zap.String("user_id", id.ID))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.oauth.Client(ctx, token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("user info has no id")
	}
	return &info, nil
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+code, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
