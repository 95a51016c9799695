package bootstrap

import (
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/categories"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/profiles"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/tasks"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/transactions"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/audit"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/oauthstate"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/metrics"
	"go.uber.org/zap"
)

// services is the object graph shared by the feature handlers.
type services struct {
	Metrics      *metrics.Metrics
	Audit        *auditlog.Logger
	Identity     *identity.Local
	Profiles     *profiles.Service
	Categories   *categories.Service
	Transactions *transactions.Service
	Tasks        *tasks.Service
	OAuthStates  *oauthstate.Store
}

// newServices builds every service over deps.Store and subscribes profile
// reconciliation to identity sign-ins.
func newServices(appCfg AppConfig, deps DBDeps, logger *zap.Logger, idOpts ...identity.Option) *services {
	m := metrics.New()
	ids := identity.NewLocal(deps.Store, logger, idOpts...)
	s := &services{
		Metrics: m,
		Audit: auditlog.New(audit.New(deps.Store), logger, auditlog.Config{
			Auth:    appCfg.AuditLogAuth,
			Account: appCfg.AuditLogAccount,
		}),
		Identity:     ids,
		Profiles:     profiles.New(deps.Store, ids, logger, m),
		Categories:   categories.New(deps.Store, logger, m),
		Transactions: transactions.New(deps.Store, logger, m),
		Tasks:        tasks.New(deps.Store, logger, m),
		OAuthStates:  oauthstate.New(deps.Store),
	}
	s.Profiles.Watch(ids)
	return s
}
