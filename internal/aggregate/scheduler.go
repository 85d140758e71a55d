package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/trackpulse/trackpulse/internal/core"
)

// Interval bounds. Clamping protects against misconfiguration: below the
// minimum the scheduler would hot-loop over origin servers, above the maximum
// the cache would be effectively stale.
const (
	MinInterval     = 5 * time.Minute
	MaxInterval     = 24 * time.Hour
	DefaultInterval = 30 * time.Minute
)

// ClampInterval maps a configured refresh interval into the sane range. A
// non-positive interval gets the default.
func ClampInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return DefaultInterval
	}
	if interval < MinInterval {
		return MinInterval
	}
	if interval > MaxInterval {
		return MaxInterval
	}
	return interval
}

// Scheduler runs refresh cycles on a timer and on demand. Cycle execution is
// single-flight: a refresh requested while one is already running joins the
// in-flight cycle instead of racing it, so at most one cycle executes at a
// time and only one result is published per execution.
type Scheduler struct {
	aggregator *Aggregator
	interval   time.Duration
	cron       *cron.Cron
	group      singleflight.Group
	logger     *slog.Logger
}

func NewScheduler(aggregator *Aggregator, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	clamped := ClampInterval(interval)
	if clamped != interval {
		logger.Warn("refresh interval clamped", "configured", interval, "effective", clamped)
	}
	return &Scheduler{
		aggregator: aggregator,
		interval:   clamped,
		logger:     logger,
	}
}

// Interval reports the effective (clamped) refresh interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Refresh runs a cycle now, or joins the one already in flight. The returned
// snapshot is the one that cycle published. The only error case is a refresh
// that could not begin at all.
func (s *Scheduler) Refresh(ctx context.Context) (*core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("refresh could not start: %w", err)
	}
	result, err, _ := s.group.Do("cycle", func() (interface{}, error) {
		return s.aggregator.RunCycle(ctx), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*core.Snapshot), nil
}

// Start runs the boot cycle synchronously, then schedules periodic refreshes
// until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("boot refresh: %w", err)
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		if _, err := s.Refresh(context.Background()); err != nil {
			s.logger.Error("scheduled refresh failed to start", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "interval", s.interval)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the periodic trigger and waits for a running cycle job to end.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
