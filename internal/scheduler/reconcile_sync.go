// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/openshelf/librarium/internal/config"
	"github.com/openshelf/librarium/internal/library"
)

// ReconcileScheduler periodically sweeps the store for one-sided references
// and repairs them.
type ReconcileScheduler struct {
	service *library.Service
	cfg     config.Reconcile

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewReconcileScheduler creates a new scheduler instance.
func NewReconcileScheduler(service *library.Service, cfg config.Reconcile) *ReconcileScheduler {
	return &ReconcileScheduler{
		service: service,
		cfg:     cfg,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if reconciliation is enabled.
func (s *ReconcileScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled {
		log.Printf("Reconcile scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.runOnce)
	if err != nil {
		return err
	}
	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true
	log.Printf("Reconcile scheduler: started with schedule %q", s.cfg.Schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *ReconcileScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Reconcile scheduler: stopped")
}

func (s *ReconcileScheduler) runOnce() {
	report, err := s.service.Reconcile(library.System)
	if err != nil {
		log.Printf("Reconcile scheduler: sweep failed: %v", err)
		return
	}
	if report.Total() == 0 {
		log.Printf("Reconcile scheduler: sweep clean")
	}
}
