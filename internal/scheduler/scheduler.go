// Package scheduler wires up the cron job that periodically re-runs the seed
// queries so the opportunity store stays fresh between user searches.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher runs a batch of seed queries and reports how many records came
// back. *discovery.Service satisfies it.
type Refresher interface {
	RefreshSeeds(ctx context.Context, seeds []string) int
}

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	seeds     []string
	spec      string // cron spec, e.g. "@every 6h"
	log       *zap.Logger

	mu      sync.Mutex // serialises refresh cycles
	running sync.WaitGroup
}

// New creates a Scheduler that fires every intervalHours hours. Values below
// one hour are raised to one.
func New(r Refresher, seeds []string, intervalHours int, log *zap.Logger) *Scheduler {
	if intervalHours < 1 {
		intervalHours = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "scheduler"))
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{log.Sugar()}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log.Sugar()})),
		),
		refresher: r,
		seeds:     append([]string(nil), seeds...),
		spec:      fmt.Sprintf("@every %dh", intervalHours),
		log:       log,
	}
}

// Spec returns the cron expression the job is registered with.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. It also runs one refresh
// immediately so the store is populated without waiting for the first tick.
// With no seed queries configured nothing is scheduled.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.seeds) == 0 {
		s.log.Info("No seed queries configured, refresh disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("Cron started", zap.String("spec", s.spec), zap.Int("seeds", len(s.seeds)))

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// Stop halts the schedule and waits for any running refresh to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.running.Wait()
	s.log.Info("Cron stopped")
}

// RunOnce refreshes every seed query once. Concurrent calls run one after
// the other.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	s.log.Info("Refresh cycle started", zap.Int("seeds", len(s.seeds)))
	n := s.refresher.RefreshSeeds(ctx, s.seeds)
	s.log.Info("Refresh cycle complete",
		zap.Int("opportunities", n),
		zap.Duration("duration", time.Since(start)),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
