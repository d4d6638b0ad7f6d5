// internal/app/system/workers/runner.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/pujahub/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Runner is a background worker that runs one job on a fixed interval.
type Runner struct {
	job     tasks.Job
	log     *zap.Logger
	timeout time.Duration
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRunner creates a worker for job. Each run gets timeout to finish.
func NewRunner(job tasks.Job, logger *zap.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		job:     job,
		log:     logger.With(zap.String("job", job.Name)),
		timeout: timeout,
		stopCh:  make(chan struct{}),
	}
}

// Start runs the job once immediately and then every interval.
func (w *Runner) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("worker started", zap.Duration("interval", w.job.Interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *Runner) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("worker stopped")
}

func (w *Runner) run() {
	defer w.wg.Done()

	w.once()
	ticker := time.NewTicker(w.job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.once()
		}
	}
}

func (w *Runner) once() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.job.Run(ctx); err != nil {
		w.log.Error("job failed", zap.Error(err))
		return
	}
	w.log.Debug("job finished", zap.Duration("took", time.Since(start)))
}
