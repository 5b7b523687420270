package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

// Evicter removes abandoned conversations from a store.
type Evicter interface {
	EvictExpired(ctx context.Context) (int, error)
}

// Scheduler periodically evicts abandoned conversations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	evicter   Evicter
	interval  time.Duration
}

// New creates a new Scheduler.
func New(evicter Evicter, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		evicter:   evicter,
		interval:  interval,
	}
}

// Start schedules the eviction job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.evicter == nil {
		logx.Info().Msg("scheduler: no evicter configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single eviction pass.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.evicter.EvictExpired(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("scheduler: conversation eviction failed")
		return
	}
	if removed > 0 {
		logx.Info().Int("removed", removed).Msg("scheduler: evicted abandoned conversations")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
