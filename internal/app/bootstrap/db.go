// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/pujahub/internal/app/docstore/fsstore"
	"github.com/dalemusser/pujahub/internal/app/docstore/memstore"
	"github.com/dalemusser/pujahub/internal/app/docstore/mongostore"
	"github.com/dalemusser/pujahub/internal/app/system/indexes"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB opens the configured document store backend.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{Backend: appCfg.StoreBackend, Background: &Background{}}

	switch appCfg.StoreBackend {
	case BackendMongo:
		opts := options.Client().
			ApplyURI(appCfg.MongoURI).
			SetMaxPoolSize(appCfg.MongoMaxPoolSize).
			SetMinPoolSize(appCfg.MongoMinPoolSize)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return deps, fmt.Errorf("mongo connect: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return deps, fmt.Errorf("mongo ping: %w", err)
		}
		db := client.Database(appCfg.MongoDatabase)
		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.Store = mongostore.New(db, appCfg.PollInterval, logger)
		logger.Info("connected to MongoDB",
			zap.String("database", appCfg.MongoDatabase),
			zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	case BackendFirestore:
		fs, err := fsstore.Open(ctx, appCfg.FirestoreProjectID, appCfg.FirestoreCredentialsFile, logger)
		if err != nil {
			return deps, err
		}
		deps.Firestore = fs
		deps.Store = fs

	case BackendMemory:
		logger.Warn("using in-memory document store; data is not persisted")
		deps.Store = memstore.New()

	default:
		return deps, fmt.Errorf("unknown store_backend %q", appCfg.StoreBackend)
	}
	return deps, nil
}

// EnsureSchema creates Mongo indexes and collection validators. Other
// backends have nothing to set up.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
