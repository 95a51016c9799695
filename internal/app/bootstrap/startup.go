// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/oauthstate"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// oauthStateSweep is how often expired OAuth states are removed.
const oauthStateSweep = 10 * time.Minute

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	logger.Info("timeouts configured",
		zap.Duration("short", timeouts.Short()),
		zap.Duration("long", timeouts.Long()))

	if deps.Store == nil {
		return fmt.Errorf("no document store connected")
	}
	pctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := deps.Store.Ping(pctx); err != nil {
		return fmt.Errorf("document store not reachable: %w", err)
	}

	if deps.Workers != nil {
		deps.Workers.Add(workers.OAuthStateCleanupJob(oauthstate.New(deps.Store), logger, oauthStateSweep))
		deps.Workers.Start()
	}
	return nil
}
