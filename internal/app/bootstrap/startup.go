// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/app/system/tasks"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("overrides", n))
	}

	if appCfg.PlatformAdminEmail != "" {
		checkPlatformAdmin(ctx, memberstore.New(deps.Store), appCfg.PlatformAdminEmail, logger)
	}

	if appCfg.OrphanScanInterval > 0 && deps.Background != nil {
		job := tasks.OrphanScanJob(pujastore.New(deps.Store), logger, appCfg.OrphanScanInterval)
		runner := workers.NewRunner(job, logger, timeouts.Long())
		runner.Start()
		deps.Background.Runners = append(deps.Background.Runners, runner)
	}
	return nil
}

// checkPlatformAdmin warns when no member can sign in as platform admin.
// The member is not created here; it registers and is approved like anyone
// else.
func checkPlatformAdmin(ctx context.Context, members *memberstore.Store, email string, logger *zap.Logger) bool {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), logger, "check platform admin")
	defer cancel()

	email = normalize.Email(email)
	m, err := members.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		logger.Warn("platform admin email has no member yet", zap.String("email", email))
		return false
	case err != nil:
		logger.Warn("platform admin lookup failed", zap.String("email", email), zap.Error(err))
		return false
	}
	logger.Info("platform admin configured", zap.String("member_id", m.ID))
	return true
}
