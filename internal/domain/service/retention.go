package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/pkg/safego"
)

// RetentionConfig retention sweeper configuration
type RetentionConfig struct {
	Interval time.Duration // sweep interval (default: 10m)
	TTL      time.Duration // message lifetime (default: entity.MessageTTL)
}

// RetentionSweeper periodically hard-deletes messages past their TTL.
// Messages are never soft-deleted; once expired they are gone.
type RetentionSweeper struct {
	config   RetentionConfig
	messages repository.MessageRepository
	logger   *zap.Logger
	onSweep  func(deleted int64, cutoff time.Time)
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
	mu       sync.Mutex
}

// NewRetentionSweeper creates a retention sweeper
func NewRetentionSweeper(cfg RetentionConfig, messages repository.MessageRepository, logger *zap.Logger) *RetentionSweeper {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.TTL == 0 {
		cfg.TTL = entity.MessageTTL
	}

	return &RetentionSweeper{
		config:   cfg,
		messages: messages,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetOnSweep registers an observer called after each sweep that removed
// messages. Must be set before Start.
func (s *RetentionSweeper) SetOnSweep(fn func(deleted int64, cutoff time.Time)) {
	s.onSweep = fn
}

// Start begins the sweep loop
func (s *RetentionSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	s.logger.Info("Starting retention sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("ttl", s.config.TTL),
	)

	safego.Go(s.logger, "retention-sweeper", s.loop)
}

// Stop halts the sweep loop
func (s *RetentionSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.cancel()
		s.running = false
	}
}

func (s *RetentionSweeper) loop() {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Sweep once on startup so a restart doesn't extend message lifetimes
	s.Sweep(s.ctx)

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Retention sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(s.ctx)
		}
	}
}

// Sweep deletes all messages older than the TTL. Exported so the batch job
// and tests can trigger a sweep directly.
func (s *RetentionSweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.config.TTL)

	deleted, err := s.messages.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Retention sweep failed", zap.Error(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("Retention sweep removed expired messages",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
		if s.onSweep != nil {
			s.onSweep(deleted, cutoff)
		}
	}
}
