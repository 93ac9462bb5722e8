// Package scheduler runs periodic housekeeping for the conversion service.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScratchSweeper removes upload scratch directories orphaned by a crash.
type ScratchSweeper interface {
	SweepStale(maxAge time.Duration) (int, error)
}

// AuditPruner provides the ability to delete old audit records.
type AuditPruner interface {
	DeleteOlderThan(retention time.Duration) (int64, error)
}

type JanitorConfig struct {
	Schedule       string        // Five-field cron expression; empty or "off" disables the scheduler
	ScratchMaxAge  time.Duration // Scratch directories older than this are orphans
	AuditRetention time.Duration // Zero keeps audit records forever
}

// JanitorResult reports what a single run cleaned up.
type JanitorResult struct {
	ScratchDirsRemoved  int
	AuditRecordsDeleted int64
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// JanitorScheduler periodically sweeps stale scratch directories and
// expired audit records.
type JanitorScheduler struct {
	config  JanitorConfig
	scratch ScratchSweeper
	audit   AuditPruner
	logger  logrus.FieldLogger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewJanitorScheduler creates a scheduler. audit may be nil when auditing
// is disabled.
func NewJanitorScheduler(cfg JanitorConfig, scratch ScratchSweeper, audit AuditPruner, logger logrus.FieldLogger) *JanitorScheduler {
	return &JanitorScheduler{
		config:  cfg,
		scratch: scratch,
		audit:   audit,
		logger:  logger,
		cron:    cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start schedules the cleanup job. It stops by itself when ctx is cancelled.
func (s *JanitorScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.config.Schedule == "" || strings.EqualFold(s.config.Schedule, "off") {
		s.logger.Info("Janitor scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule janitor job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.logger.WithField("schedule", s.config.Schedule).Infof("Janitor scheduler: started. Next run: %v", s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running cleanup to finish and stops the scheduler.
func (s *JanitorScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.logger.Info("Janitor scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *JanitorScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will occur
func (s *JanitorScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow performs one cleanup synchronously. Concurrent runs are serialized.
func (s *JanitorScheduler) RunNow() JanitorResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	var result JanitorResult

	if s.scratch != nil && s.config.ScratchMaxAge > 0 {
		removed, err := s.scratch.SweepStale(s.config.ScratchMaxAge)
		if err != nil {
			s.logger.WithError(err).Warn("Janitor: failed to sweep scratch directories")
		}
		result.ScratchDirsRemoved = removed
	}

	if s.audit != nil && s.config.AuditRetention > 0 {
		deleted, err := s.audit.DeleteOlderThan(s.config.AuditRetention)
		if err != nil {
			s.logger.WithError(err).Warn("Janitor: failed to prune audit records")
		}
		result.AuditRecordsDeleted = deleted
	}

	if result.ScratchDirsRemoved > 0 || result.AuditRecordsDeleted > 0 {
		s.logger.WithFields(logrus.Fields{
			"scratch_dirs":  result.ScratchDirsRemoved,
			"audit_records": result.AuditRecordsDeleted,
		}).Info("Janitor: cleanup finished")
	}
	return result
}
