package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/upb/rol-control-plane/middleware"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned when events are logged before Start or after Stop
	ErrNotStarted = errors.New("audit service not started")

	// ErrBufferFull is returned when the event buffer cannot take another entry
	ErrBufferFull = errors.New("audit event buffer full")
)

// AuditService writes the staff audit trail from a pool of background workers
type AuditService struct {
	auditRepo   repositories.AuditRepository
	logger      *zap.Logger
	eventChan   chan *models.AuditLog
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	started     bool
	stopped     bool
	mu          sync.RWMutex
}

// Config holds configuration for the AuditService
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  1000,
		WorkerCount: 2,
	}
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repositories.AuditRepository, logger *zap.Logger, config Config) *AuditService {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultConfig().WorkerCount
	}

	return &AuditService{
		auditRepo:   auditRepo,
		logger:      logger,
		eventChan:   make(chan *models.AuditLog, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
	}
}

// Start starts the background workers
func (s *AuditService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop stops accepting events and waits for queued ones to be written
func (s *AuditService) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.stopped = true
	close(s.eventChan)
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_events", len(s.eventChan)))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// LogEvent queues an entry without blocking
func (s *AuditService) LogEvent(entry *models.AuditLog) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started || s.stopped {
		return ErrNotStarted
	}

	select {
	case s.eventChan <- entry:
		return nil
	default:
		s.logger.Warn("audit event channel full, dropping event",
			zap.String("action", string(entry.Action)),
			zap.String("staff_id", entry.StaffID.String()))
		return ErrBufferFull
	}
}

// List returns audit entries matching filter, newest first
func (s *AuditService) List(ctx context.Context, filter repositories.AuditFilter) ([]*models.AuditLog, error) {
	return s.auditRepo.List(ctx, filter)
}

func (s *AuditService) worker(id int) {
	defer s.wg.Done()

	for entry := range s.eventChan {
		if err := s.processEvent(entry); err != nil {
			s.logger.Error("failed to process audit event",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("action", string(entry.Action)),
				zap.String("staff_id", entry.StaffID.String()))
		}
	}
}

func (s *AuditService) processEvent(entry *models.AuditLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// GetStats returns statistics about the audit service
func (s *AuditService) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferSize:    s.bufferSize,
		PendingEvents: len(s.eventChan),
		WorkerCount:   s.workerCount,
		Started:       s.started && !s.stopped,
	}
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize    int  `json:"buffer_size"`
	PendingEvents int  `json:"pending_events"`
	WorkerCount   int  `json:"worker_count"`
	Started       bool `json:"started"`
}

// LogStaffCreated records that actor added member
func (s *AuditService) LogStaffCreated(ctx context.Context, actor, member *models.StaffMember) error {
	return s.log(ctx, actor, models.AuditActionStaffCreated, member, "", member.Role)
}

// LogStaffRoleUpdated records that actor moved member from one role to another.
// member carries the new role.
func (s *AuditService) LogStaffRoleUpdated(ctx context.Context, actor, member *models.StaffMember, from permissions.StaffRole) error {
	return s.log(ctx, actor, models.AuditActionStaffRoleUpdated, member, from, member.Role)
}

// LogStaffDeleted records that actor removed member
func (s *AuditService) LogStaffDeleted(ctx context.Context, actor, member *models.StaffMember) error {
	return s.log(ctx, actor, models.AuditActionStaffDeleted, member, member.Role, "")
}

func (s *AuditService) log(ctx context.Context, actor *models.StaffMember, action models.AuditAction, member *models.StaffMember, from, to permissions.StaffRole) error {
	entry := models.NewAuditLog(actor.UserID, action, member).
		WithRoles(from, to).
		WithRequest(middleware.GetRequestIDFromContext(ctx))
	return s.LogEvent(entry)
}
