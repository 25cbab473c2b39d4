// Package scheduler wires up the cron job that periodically deactivates
// expired job postings.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Sweeper deactivates expired jobs and reports how many it touched.
type Sweeper interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// Scheduler wraps robfig/cron and runs the expiry sweep.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string // cron spec, e.g. "@daily"

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler that sweeps on spec.
func New(sweeper Sweeper, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		sweeper: sweeper,
		spec:    spec,
	}
}

// Start registers the sweep and starts the scheduler. It also runs one sweep
// immediately so jobs that expired while the service was down are deactivated
// without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", s.spec, err)
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	go s.RunOnce(ctx)

	return nil
}

// Stop shuts down the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce performs one sweep. Overlapping calls are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[scheduler] Sweep already running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	n, err := s.sweeper.DeactivateExpired(ctx)
	if err != nil {
		log.Printf("[scheduler] Expiry sweep error: %v", err)
		return
	}
	log.Printf("[scheduler] Expiry sweep complete, %d job(s) deactivated", n)
}
