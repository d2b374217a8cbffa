package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Runner is the crawl entry point the scheduler drives.
type Runner interface {
	RunAll(ctx context.Context, locations []string) error
}

// Scheduler re-runs the full crawl on a cron expression in daemon mode.
type Scheduler struct {
	runner    Runner
	locations []string
	cron      *cron.Cron
}

func New(runner Runner, locations []string) *Scheduler {
	return &Scheduler{
		runner:    runner,
		locations: locations,
		cron:      cron.New(),
	}
}

func (s *Scheduler) Start(ctx context.Context, spec string) error {
	log.Printf("Starting scheduler with cron: %s", spec)
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.runner.RunAll(ctx, s.locations); err != nil {
			log.Printf("Scheduled run error: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
