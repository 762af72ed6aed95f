// Package scheduler keeps the market data cache warm for a watchlist.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
)

// DefaultRunTimeout bounds one warm-up run.
const DefaultRunTimeout = 5 * time.Minute

// Warmer refreshes cached data for a set of tickers.
type Warmer interface {
	Warm(ctx context.Context, tickers []string, period, interval string) error
}

// Scheduler runs the cache warmer on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	warmer   Warmer
	tickers  []string
	period   string
	interval string
	timeout  time.Duration
	log      zerolog.Logger
}

// New registers a warm-up job for tickers on schedule, which accepts the
// standard five-field syntax and descriptors such as "@every 30m".
// Runs never overlap; a run still in progress skips the next tick.
func New(schedule string, tickers []string, w Warmer) (*Scheduler, error) {
	s := &Scheduler{
		warmer:   w,
		tickers:  append([]string(nil), tickers...),
		period:   marketdata.DefaultPeriod,
		interval: marketdata.DefaultInterval,
		timeout:  DefaultRunTimeout,
		log:      logger.Component("scheduler"),
	}
	cl := cronLogger{log: s.log}
	s.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	if _, err := s.cron.AddFunc(schedule, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("register warm job %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Strs("tickers", s.tickers).Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunOnce warms the cache immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.warmer.Warm(ctx, s.tickers, s.period, s.interval)
	ev := s.log.Info()
	if err != nil {
		ev = s.log.Warn().Err(err)
	}
	ev.Int("tickers", len(s.tickers)).Int64("latency_ms", time.Since(start).Milliseconds()).Msg("cache warm-up finished")
	return err
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
