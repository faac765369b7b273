package ledger

import (
	"context"
	"log/slog"
	"time"
)

// Syncer is implemented by Service.
type Syncer interface {
	Sync(ctx context.Context) (*Result, error)
}

// Runner re-runs the materializer on a fixed interval so months roll over
// even when nobody opens the app.
type Runner struct {
	svc      Syncer
	interval time.Duration
}

func NewRunner(svc Syncer, interval time.Duration) *Runner {
	return &Runner{svc: svc, interval: interval}
}

// Start syncs once, then on every tick until ctx is cancelled. A zero
// interval disables the runner.
func (r *Runner) Start(ctx context.Context) {
	if r.interval <= 0 {
		slog.Info("ledger runner disabled")
		return
	}

	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	res, err := r.svc.Sync(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("scheduled ledger sync failed", "error", err)
		}

		return
	}

	slog.Debug("scheduled ledger sync", "planned", res.Planned, "inserted", len(res.Inserted))
}
