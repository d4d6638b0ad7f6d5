// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers and closes the store connection.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Background != nil {
		for _, r := range deps.Background.Runners {
			r.Stop()
		}
		for _, c := range deps.Background.Closers {
			c()
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting PujaHub MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	if deps.Firestore != nil {
		if err := deps.Firestore.Close(); err != nil {
			logger.Error("Firestore close failed", zap.Error(err))
			return err
		}
	}
	return nil
}
