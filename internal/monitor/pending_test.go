package monitor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/newsletter/internal/metrics"
	"github.com/ErlanBelekov/newsletter/internal/monitor"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakePendingRepo struct {
	countPendingBefore func(ctx context.Context, cutoff time.Time) (int, error)
	calls              int
}

func (f *fakePendingRepo) CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	f.calls++
	return f.countPendingBefore(ctx, cutoff)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPendingMonitor_InvalidSchedule(t *testing.T) {
	_, err := monitor.NewPendingMonitor(&fakePendingRepo{}, discardLogger(), "every now and then", time.Hour)
	if err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestScan_SetsGaugeAndUsesCutoff(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	repo := &fakePendingRepo{
		countPendingBefore: func(_ context.Context, cutoff time.Time) (int, error) {
			gotCutoff = cutoff
			return 7, nil
		},
	}

	m, err := monitor.NewPendingMonitor(repo, discardLogger(), "@every 5m", 24*time.Hour)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	m.SetClock(func() time.Time { return now })

	if err := m.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(-24 * time.Hour); !gotCutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", gotCutoff, want)
	}
	if got := testutil.ToFloat64(metrics.StalePendingSubscribers); got != 7 {
		t.Errorf("gauge = %v, want 7", got)
	}
}

func TestScan_RepoError_KeepsGauge(t *testing.T) {
	metrics.StalePendingSubscribers.Set(3)
	repoErr := errors.New("db down")
	repo := &fakePendingRepo{
		countPendingBefore: func(_ context.Context, _ time.Time) (int, error) { return 0, repoErr },
	}

	m, err := monitor.NewPendingMonitor(repo, discardLogger(), "*/5 * * * *", time.Hour)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	if err := m.Scan(context.Background()); !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.StalePendingSubscribers); got != 3 {
		t.Errorf("gauge = %v, want unchanged 3", got)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	repo := &fakePendingRepo{
		countPendingBefore: func(_ context.Context, _ time.Time) (int, error) { return 0, nil },
	}
	m, err := monitor.NewPendingMonitor(repo, discardLogger(), "@every 1h", time.Hour)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
