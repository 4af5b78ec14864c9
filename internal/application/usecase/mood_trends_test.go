package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/persistence"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

func seedJournals(t *testing.T, journals repository.JournalRepository, owner string, dates ...string) {
	t.Helper()
	ctx := context.Background()
	for i, date := range dates {
		entry, err := entity.NewJournalEntry(
			"j"+date, owner, date,
			"Dear Diary, entry number "+string(rune('1'+i))+".",
			"neutral", true,
		)
		if err != nil {
			t.Fatalf("failed to build journal: %v", err)
		}
		if _, err := journals.Upsert(ctx, entry); err != nil {
			t.Fatalf("failed to seed journal: %v", err)
		}
	}
}

func TestMoodTrends_OrderedOldestFirst(t *testing.T) {
	journals := persistence.NewMemoryJournalRepository()
	seedJournals(t, journals, "u1", "2024-05-03", "2024-05-01", "2024-05-02")

	classifier := &fakeClassifier{predictions: []valueobject.EmotionPrediction{
		valueobject.NewEmotionPrediction("calm", 0.6),
	}}

	uc := NewMoodTrendsUseCase(journals, classifier, zap.NewNop())

	points, err := uc.Execute(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	// Timeline order: oldest first
	for i, want := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
		if points[i].Date != want {
			t.Errorf("point %d: expected date %s, got %s", i, want, points[i].Date)
		}
	}
	if classifier.callCount() != 3 {
		t.Errorf("expected 3 classifier calls, got %d", classifier.callCount())
	}
	if len(points[0].Predictions) != 1 || points[0].Predictions[0].Label() != "calm" {
		t.Errorf("unexpected predictions: %+v", points[0].Predictions)
	}
}

func TestMoodTrends_ClassifierFailureYieldsEmptyPoint(t *testing.T) {
	journals := persistence.NewMemoryJournalRepository()
	seedJournals(t, journals, "u1", "2024-05-01")

	classifier := &fakeClassifier{err: domainErrors.NewServiceUnavailableError("emotion", "predict request failed", errors.New("dial refused"))}

	uc := NewMoodTrendsUseCase(journals, classifier, zap.NewNop())

	points, err := uc.Execute(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected per-entry failure to be absorbed, got %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if len(points[0].Predictions) != 0 {
		t.Errorf("expected empty predictions on failure, got %+v", points[0].Predictions)
	}
	// The stored mood survives even when re-classification fails
	if points[0].Mood != "neutral" {
		t.Errorf("expected stored mood, got %q", points[0].Mood)
	}
}

func TestMoodTrends_NoJournals(t *testing.T) {
	uc := NewMoodTrendsUseCase(persistence.NewMemoryJournalRepository(), &fakeClassifier{}, zap.NewNop())

	points, err := uc.Execute(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected empty timeline, got %d points", len(points))
	}
}
