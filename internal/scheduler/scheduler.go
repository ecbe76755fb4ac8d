package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Resyncer reloads cached state from the backing store.
type Resyncer interface {
	Resync(ctx context.Context)
}

// ResyncScheduler periodically reconciles open workspaces with the database
// so that changes missed while the change feed was down are picked up.
type ResyncScheduler struct {
	target   Resyncer
	interval time.Duration
}

func NewResyncScheduler(target Resyncer, interval time.Duration) *ResyncScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ResyncScheduler{target: target, interval: interval}
}

func (s *ResyncScheduler) Start(ctx context.Context) {
	if s.target == nil {
		slog.Warn("resync scheduler skipped: nothing to resync")
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.run(ctx)
			}
		}
	}()
}

func (s *ResyncScheduler) run(ctx context.Context) {
	started := time.Now()
	s.target.Resync(ctx)
	slog.Debug("workspaces resynced", "took", time.Since(started))
}
