package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/persistence"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

func TestJournalQuery_ListNewestFirst(t *testing.T) {
	journals := persistence.NewMemoryJournalRepository()
	seedJournals(t, journals, "u1", "2024-05-01", "2024-05-02")

	uc := NewJournalQueryUseCase(journals, zap.NewNop())

	entries, err := uc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date() != "2024-05-02" {
		t.Errorf("expected newest first, got %s", entries[0].Date())
	}
}

func TestJournalQuery_DeleteScopedToOwner(t *testing.T) {
	journals := persistence.NewMemoryJournalRepository()
	seedJournals(t, journals, "u1", "2024-05-01")

	uc := NewJournalQueryUseCase(journals, zap.NewNop())
	ctx := context.Background()

	if err := uc.Delete(ctx, "u2", "j2024-05-01"); !domainErrors.IsNotFound(err) {
		t.Errorf("expected NotFound for foreign owner, got %v", err)
	}
	if err := uc.Delete(ctx, "u1", "j2024-05-01"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	entries, _ := uc.List(ctx, "u1")
	if len(entries) != 0 {
		t.Errorf("expected no entries after delete, got %d", len(entries))
	}
}

func TestJournalQuery_MissingIdentityRejected(t *testing.T) {
	uc := NewJournalQueryUseCase(persistence.NewMemoryJournalRepository(), zap.NewNop())

	if _, err := uc.List(context.Background(), ""); !domainErrors.IsInvalidInput(err) {
		t.Errorf("expected InvalidInput for missing owner, got %v", err)
	}
	if err := uc.Delete(context.Background(), "u1", ""); !domainErrors.IsInvalidInput(err) {
		t.Errorf("expected InvalidInput for missing id, got %v", err)
	}
}
