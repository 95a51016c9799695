// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/memdoc"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/mongodoc"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/indexes"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 15 * time.Second

// ConnectDB opens the configured document store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if appCfg.StoreBackend == BackendMemory {
		logger.Info("document store: memory")
		return DBDeps{Backend: BackendMemory, Store: memdoc.New(), Workers: workers.NewRunner(logger)}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(appCfg.MongoURI)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("document store: mongo", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		Backend:       BackendMongo,
		MongoClient:   client,
		MongoDatabase: db,
		Store:         mongodoc.New(db, logger),
		Workers:       workers.NewRunner(logger),
	}, nil
}

// EnsureSchema creates the Mongo indexes. The memory store needs none.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
