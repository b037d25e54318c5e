package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/mauv0809/rinkstats/internal/syncer"
)

// SyncRunner is the part of syncer.Syncer the scheduler drives.
type SyncRunner interface {
	SyncAll(ctx context.Context, dryRun bool) ([]syncer.Result, error)
}

// Scheduler retries pending journal entries on an interval.
type Scheduler struct {
	s        gocron.Scheduler
	syncer   SyncRunner
	interval time.Duration
	timeout  time.Duration
}

func NewScheduler(runner SyncRunner, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		s:        s,
		syncer:   runner,
		interval: interval,
		timeout:  2 * time.Minute,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.syncPending),
		gocron.WithName("sync-pending"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create sync job: %w", err)
	}

	s.s.Start()
	log.Info("Scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) syncPending() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	results, err := s.syncer.SyncAll(ctx, false)
	if err != nil {
		log.Error("Scheduled sync failed", "error", err)
	}
	for _, r := range results {
		log.Info("Scheduled sync", "kind", r.Kind, "synced", r.Synced)
	}
}
