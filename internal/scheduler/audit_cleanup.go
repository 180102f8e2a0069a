package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/soonhyok/accountd/internal/database/audit"
)

// AuditCleanupScheduler prunes audit events past the retention period on a
// cron schedule.
type AuditCleanupScheduler struct {
	repo          *audit.Repository
	retentionDays int

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewAuditCleanupScheduler creates a new scheduler instance.
func NewAuditCleanupScheduler(repo *audit.Repository, retentionDays int) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		repo:          repo,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler with the given cron expression.
func (s *AuditCleanupScheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.retentionDays <= 0 {
		log.Printf("Audit cleanup disabled (retention days <= 0)")
		return nil
	}

	entryID, err := s.cron.AddFunc(schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("invalid audit cleanup schedule %q: %w", schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	log.Printf("Audit cleanup scheduled (%s), retention %d days", schedule, s.retentionDays)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Audit cleanup scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow triggers a cleanup outside the schedule. Used by tests and the CLI.
func (s *AuditCleanupScheduler) RunNow() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	return s.repo.DeleteOlderThan(cutoff)
}

func (s *AuditCleanupScheduler) runCleanup() {
	deleted, err := s.RunNow()
	if err != nil {
		log.Printf("Audit cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Audit cleanup removed %d events", deleted)
	}
}
