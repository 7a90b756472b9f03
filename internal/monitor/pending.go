package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/newsletter/internal/metrics"
	"github.com/robfig/cron/v3"
)

type pendingCounter interface {
	CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// PendingMonitor periodically counts subscribers that never clicked their
// confirmation link and exports the number as a gauge. It never resends mail
// and never deletes rows.
type PendingMonitor struct {
	repo       pendingCounter
	schedule   cron.Schedule
	staleAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewPendingMonitor parses expr with the standard cron parser, so both
// five-field expressions and descriptors such as "@every 5m" work.
func NewPendingMonitor(repo pendingCounter, logger *slog.Logger, expr string, staleAfter time.Duration) (*PendingMonitor, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("pending scan schedule %q: %w", expr, err)
	}
	return &PendingMonitor{
		repo:       repo,
		schedule:   schedule,
		staleAfter: staleAfter,
		logger:     logger.With("component", "pending_monitor"),
		now:        time.Now,
	}, nil
}

// Start runs Scan on the schedule until ctx is cancelled and waits for an
// in-flight scan to finish.
func (m *PendingMonitor) Start(ctx context.Context) {
	c := cron.New()
	c.Schedule(m.schedule, cron.FuncJob(func() {
		if err := m.Scan(ctx); err != nil {
			m.logger.ErrorContext(ctx, "pending scan", "error", err)
		}
	}))
	c.Start()
	m.logger.Info("pending monitor started", "stale_after", m.staleAfter)

	<-ctx.Done()
	<-c.Stop().Done()
	m.logger.Info("pending monitor shut down")
}

// Scan counts pending subscribers older than staleAfter and updates the gauge.
func (m *PendingMonitor) Scan(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.PendingScanDuration.Observe(time.Since(start).Seconds())
	}()

	cutoff := m.now().Add(-m.staleAfter)
	n, err := m.repo.CountPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("count pending before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	metrics.StalePendingSubscribers.Set(float64(n))
	if n > 0 {
		m.logger.WarnContext(ctx, "subscribers pending confirmation past threshold",
			"count", n, "stale_after", m.staleAfter)
	}
	return nil
}
