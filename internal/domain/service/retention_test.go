package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/persistence"
)

func TestRetentionSweeper_SweepDeletesExpired(t *testing.T) {
	repo := persistence.NewMemoryMessageRepository()
	ctx := context.Background()

	now := time.Now().UTC()
	expired := entity.ReconstructMessage("m1", "u1", "c1", entity.SenderUser, "old news", now.Add(-25*time.Hour))
	fresh := entity.ReconstructMessage("m2", "u1", "c1", entity.SenderUser, "still warm", now.Add(-time.Hour))
	repo.Save(ctx, expired)
	repo.Save(ctx, fresh)

	var observedDeleted int64
	sweeper := NewRetentionSweeper(RetentionConfig{TTL: 24 * time.Hour}, repo, zap.NewNop())
	sweeper.SetOnSweep(func(deleted int64, cutoff time.Time) {
		observedDeleted = deleted
	})

	sweeper.Sweep(ctx)

	if observedDeleted != 1 {
		t.Errorf("expected 1 deletion observed, got %d", observedDeleted)
	}

	remaining, err := repo.FindByConversationID(ctx, "c1", 10)
	if err != nil {
		t.Fatalf("FindByConversationID failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID() != "m2" {
		t.Fatalf("expected only the fresh message to survive, got %d", len(remaining))
	}
}

func TestRetentionSweeper_StartStopIdempotent(t *testing.T) {
	repo := persistence.NewMemoryMessageRepository()
	sweeper := NewRetentionSweeper(RetentionConfig{Interval: time.Hour}, repo, zap.NewNop())

	sweeper.Start()
	sweeper.Start() // second Start is a no-op
	sweeper.Stop()
	sweeper.Stop() // second Stop is a no-op
}

func TestRetentionSweeper_Defaults(t *testing.T) {
	sweeper := NewRetentionSweeper(RetentionConfig{}, persistence.NewMemoryMessageRepository(), zap.NewNop())

	if sweeper.config.Interval != 10*time.Minute {
		t.Errorf("expected default interval 10m, got %v", sweeper.config.Interval)
	}
	if sweeper.config.TTL != entity.MessageTTL {
		t.Errorf("expected default TTL %v, got %v", entity.MessageTTL, sweeper.config.TTL)
	}
}
