// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"go.uber.org/zap"
)

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// OrphanScanJob logs puja-scoped collections whose puja has been deleted.
// It only reports; nothing is removed.
func OrphanScanJob(pujas *pujastore.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "orphan-scan",
		Interval: interval,
		Run: func(ctx context.Context) error {
			orphans, err := pujas.Orphans(ctx)
			if err != nil {
				return err
			}
			for _, o := range orphans {
				logger.Warn("orphaned puja collection",
					zap.String("collection", o.Collection),
					zap.String("puja_id", o.PujaID))
			}
			if len(orphans) > 0 {
				logger.Info("orphan scan finished", zap.Int("count", len(orphans)))
			}
			return nil
		},
	}
}
