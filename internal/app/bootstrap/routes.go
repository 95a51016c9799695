// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/authgoogle"
	categoriesfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/categories"
	dashboardfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/dashboard"
	healthfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/health"
	loginfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/login"
	logoutfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/logout"
	profilefeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/profile"
	signupfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/signup"
	tasksfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/tasks"
	transactionsfeature "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/transactions"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the services over the
// connected document store, applies session middleware and mounts the
// JSON feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return buildHandler(coreCfg, appCfg, deps, logger)
}

func buildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger, idOpts ...identity.Option) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg != nil && coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	svc := newServices(appCfg, deps, logger, idOpts...)

	// Session users are re-read from their profile on every request, so a
	// deleted account loses its session immediately.
	sessionMgr.SetUserFetcher(svc.Profiles.NewFetcher())

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.Store, deps.Backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", svc.Metrics.Handler())

	// Authentication
	signupHandler := signupfeature.NewHandler(sessionMgr, svc.Profiles, svc.Audit, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	limiter := ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, appCfg.LoginEmailLimit)
	loginHandler := loginfeature.NewHandler(sessionMgr, svc.Identity, limiter, svc.Audit, svc.Metrics, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, svc.Identity, svc.Audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	googleHandler := authgooglefeature.NewHandler(authgooglefeature.Config{
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		BaseURL:      appCfg.BaseURL,
	}, sessionMgr, svc.Identity, svc.OAuthStates, svc.Audit, svc.Metrics, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Signed-in user's data
	profileHandler := profilefeature.NewHandler(sessionMgr, svc.Profiles, svc.Audit, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	categoriesHandler := categoriesfeature.NewHandler(svc.Categories, logger)
	r.Mount("/categories", categoriesfeature.Routes(categoriesHandler, sessionMgr))

	transactionsHandler := transactionsfeature.NewHandler(svc.Transactions, logger)
	r.Mount("/transactions", transactionsfeature.Routes(transactionsHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(svc.Transactions, svc.Tasks, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	tasksHandler := tasksfeature.NewHandler(svc.Tasks, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	return r, nil
}
