// internal/app/system/workers/jobs.go
package workers

import (
	"context"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/oauthstate"
	"go.uber.org/zap"
)

// OAuthStateCleanupJob removes expired OAuth state tokens. With Mongo it
// backs up the TTL index; the memory backend relies on it entirely.
func OAuthStateCleanupJob(stateStore *oauthstate.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := stateStore.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired OAuth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}
