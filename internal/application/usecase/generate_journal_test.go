package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/eventbus"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/persistence"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

func journalSettings() JournalSettings {
	return JournalSettings{SummaryModel: "test-summary", DiaryModel: "test-diary", Temperature: 0.7, MaxTokens: 500}
}

func storedMessageAt(id, owner, conversation string, sender entity.Sender, text string, at time.Time) *entity.Message {
	return entity.ReconstructMessage(id, owner, conversation, sender, text, at)
}

func TestGenerateJournal_FullPipeline(t *testing.T) {
	ctx := context.Background()
	messages := persistence.NewMemoryMessageRepository()
	journals := persistence.NewMemoryJournalRepository()

	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	messages.Save(ctx, storedMessageAt("m1", "u1", "c1", entity.SenderUser, "I went hiking", day))
	messages.Save(ctx, storedMessageAt("m2", "u1", "c1", entity.SenderBot, "That sounds refreshing!", day.Add(time.Minute)))

	gen := &fakeGenerator{replies: []string{
		"- went hiking\n- felt refreshed",
		"Dear Diary, today I went hiking and came home feeling refreshed. Until tomorrow.",
	}}
	classifier := &fakeClassifier{predictions: []valueobject.EmotionPrediction{
		valueobject.NewEmotionPrediction("joy", 0.82),
	}}

	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	var event eventbus.JournalGeneratedPayload
	bus.Subscribe(eventbus.EventTypeJournalGenerated, func(ctx context.Context, e eventbus.Event) {
		event = e.Payload().(eventbus.JournalGeneratedPayload)
	})

	uc := NewGenerateJournalUseCase(messages, journals, gen, classifier, bus, journalSettings(), zap.NewNop())

	saved, err := uc.Execute(ctx, GenerateJournalInput{OwnerID: "u1", Date: "2024-05-01"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	bus.Close()

	if !strings.HasPrefix(saved.Entry(), "Dear Diary,") {
		t.Errorf("unexpected diary text: %q", saved.Entry())
	}
	if saved.Mood() != "joy (0.82)" {
		t.Errorf("unexpected mood: %q", saved.Mood())
	}
	if !saved.AIGenerated() {
		t.Error("expected entry to be marked AI-generated")
	}

	// Summary stage sees the transcript; diary stage sees the summary
	if gen.generateCalls() != 2 {
		t.Fatalf("expected 2 generation calls, got %d", gen.generateCalls())
	}
	if !strings.Contains(gen.prompts[0], "User: I went hiking") {
		t.Errorf("expected transcript in summary prompt, got %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[1], "- went hiking") {
		t.Errorf("expected summary in diary prompt, got %q", gen.prompts[1])
	}
	if gen.models[0] != "test-summary" || gen.models[1] != "test-diary" {
		t.Errorf("unexpected models: %v", gen.models)
	}

	// Persisted under the (owner, date) key
	found, err := journals.FindByOwnerAndDate(ctx, "u1", "2024-05-01")
	if err != nil {
		t.Fatalf("expected journal persisted: %v", err)
	}
	if found.ID() != saved.ID() {
		t.Errorf("persisted id mismatch: %s vs %s", found.ID(), saved.ID())
	}

	if event.OwnerID != "u1" || event.Date != "2024-05-01" {
		t.Errorf("unexpected event payload: %+v", event)
	}
}

func TestGenerateJournal_NoMessagesForDay(t *testing.T) {
	gen := &fakeGenerator{}
	classifier := &fakeClassifier{}
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	defer bus.Close()

	uc := NewGenerateJournalUseCase(
		persistence.NewMemoryMessageRepository(),
		persistence.NewMemoryJournalRepository(),
		gen, classifier, bus, journalSettings(), zap.NewNop(),
	)

	_, err := uc.Execute(context.Background(), GenerateJournalInput{OwnerID: "u1", Date: "2024-05-01"})
	if !domainErrors.IsNoMessages(err) {
		t.Fatalf("expected NoMessages, got %v", err)
	}
	if gen.generateCalls() != 0 {
		t.Errorf("expected no generation for an empty day, got %d calls", gen.generateCalls())
	}
}

func TestGenerateJournal_SummaryFailureAbortsPipeline(t *testing.T) {
	ctx := context.Background()
	journals := persistence.NewMemoryJournalRepository()

	gen := &fakeGenerator{errs: []error{domainErrors.NewGenerationFailedError("model returned an empty completion")}}
	classifier := &fakeClassifier{}
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	defer bus.Close()

	uc := NewGenerateJournalUseCase(
		persistence.NewMemoryMessageRepository(), journals,
		gen, classifier, bus, journalSettings(), zap.NewNop(),
	)

	history := []valueobject.ConversationTurn{
		valueobject.NewConversationTurn(valueobject.RoleUser, "rough day"),
	}
	_, err := uc.Execute(ctx, GenerateJournalInput{OwnerID: "u1", Date: "2024-05-01", History: history})
	if !domainErrors.IsGenerationFailed(err) {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}

	// Later stages never run and nothing is persisted
	if gen.generateCalls() != 1 {
		t.Errorf("expected 1 generation call, got %d", gen.generateCalls())
	}
	if classifier.callCount() != 0 {
		t.Errorf("expected no classifier calls, got %d", classifier.callCount())
	}
	if _, err := journals.FindByOwnerAndDate(ctx, "u1", "2024-05-01"); !domainErrors.IsNotFound(err) {
		t.Errorf("expected no persisted journal, got %v", err)
	}
}

func TestGenerateJournal_DiaryFailureAbortsPipeline(t *testing.T) {
	ctx := context.Background()
	journals := persistence.NewMemoryJournalRepository()

	gen := &fakeGenerator{
		replies: []string{"- a bullet"},
		errs:    []error{nil, domainErrors.NewServiceUnavailableError("inference", "generate request failed", errors.New("timeout"))},
	}
	classifier := &fakeClassifier{}
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	defer bus.Close()

	uc := NewGenerateJournalUseCase(
		persistence.NewMemoryMessageRepository(), journals,
		gen, classifier, bus, journalSettings(), zap.NewNop(),
	)

	history := []valueobject.ConversationTurn{
		valueobject.NewConversationTurn(valueobject.RoleUser, "a long walk"),
	}
	_, err := uc.Execute(ctx, GenerateJournalInput{OwnerID: "u1", Date: "2024-05-01", History: history})
	if !domainErrors.IsServiceUnavailable(err) {
		t.Fatalf("expected ServiceUnavailable, got %v", err)
	}

	if classifier.callCount() != 0 {
		t.Errorf("expected no classifier calls, got %d", classifier.callCount())
	}
	if _, err := journals.FindByOwnerAndDate(ctx, "u1", "2024-05-01"); !domainErrors.IsNotFound(err) {
		t.Errorf("expected no persisted journal, got %v", err)
	}
}

func TestGenerateJournal_MoodFailureFallsBackToNeutral(t *testing.T) {
	ctx := context.Background()
	journals := persistence.NewMemoryJournalRepository()

	gen := &fakeGenerator{replies: []string{"- a bullet", "Dear Diary, a quiet day."}}
	classifier := &fakeClassifier{err: domainErrors.NewServiceUnavailableError("emotion", "predict request failed", errors.New("dial refused"))}
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	defer bus.Close()

	uc := NewGenerateJournalUseCase(
		persistence.NewMemoryMessageRepository(), journals,
		gen, classifier, bus, journalSettings(), zap.NewNop(),
	)

	history := []valueobject.ConversationTurn{
		valueobject.NewConversationTurn(valueobject.RoleUser, "nothing much happened"),
	}
	saved, err := uc.Execute(ctx, GenerateJournalInput{OwnerID: "u1", Date: "2024-05-01", History: history})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if saved.Mood() != valueobject.NeutralMood {
		t.Errorf("expected neutral mood fallback, got %q", saved.Mood())
	}
}

func TestGenerateJournal_UpsertReplacesSameDay(t *testing.T) {
	ctx := context.Background()
	journals := persistence.NewMemoryJournalRepository()

	gen := &fakeGenerator{replies: []string{
		"- first run", "Dear Diary, first version.",
		"- second run", "Dear Diary, second version.",
	}}
	classifier := &fakeClassifier{}
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	defer bus.Close()

	uc := NewGenerateJournalUseCase(
		persistence.NewMemoryMessageRepository(), journals,
		gen, classifier, bus, journalSettings(), zap.NewNop(),
	)

	history := []valueobject.ConversationTurn{
		valueobject.NewConversationTurn(valueobject.RoleUser, "the same day twice"),
	}
	input := GenerateJournalInput{OwnerID: "u1", Date: "2024-05-01", History: history}

	if _, err := uc.Execute(ctx, input); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if _, err := uc.Execute(ctx, input); err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}

	all, _ := journals.FindByOwner(ctx, "u1")
	if len(all) != 1 {
		t.Fatalf("expected a single journal for the day, got %d", len(all))
	}
	if all[0].Entry() != "Dear Diary, second version." {
		t.Errorf("expected the regenerated entry to win, got %q", all[0].Entry())
	}
}

func TestGenerateJournal_InvalidDateRejected(t *testing.T) {
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	defer bus.Close()

	uc := NewGenerateJournalUseCase(
		persistence.NewMemoryMessageRepository(),
		persistence.NewMemoryJournalRepository(),
		&fakeGenerator{}, &fakeClassifier{}, bus, journalSettings(), zap.NewNop(),
	)

	_, err := uc.Execute(context.Background(), GenerateJournalInput{OwnerID: "u1", Date: "05/01/2024"})
	if !domainErrors.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestGenerateJournal_DateDefaultsToToday(t *testing.T) {
	ctx := context.Background()
	journals := persistence.NewMemoryJournalRepository()

	gen := &fakeGenerator{replies: []string{"- a bullet", "Dear Diary, today."}}
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	defer bus.Close()

	uc := NewGenerateJournalUseCase(
		persistence.NewMemoryMessageRepository(), journals,
		gen, &fakeClassifier{}, bus, journalSettings(), zap.NewNop(),
	)
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC) }

	history := []valueobject.ConversationTurn{
		valueobject.NewConversationTurn(valueobject.RoleUser, "late night thoughts"),
	}
	saved, err := uc.Execute(ctx, GenerateJournalInput{OwnerID: "u1", History: history})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if saved.Date() != "2024-05-01" {
		t.Errorf("expected today's date, got %s", saved.Date())
	}
}
