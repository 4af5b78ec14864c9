package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/eventbus"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// JournalSettings model parameters for the two generation stages.
type JournalSettings struct {
	SummaryModel string
	DiaryModel   string
	Temperature  float64
	MaxTokens    int
}

// GenerateJournalInput selects whose day to journal. Date defaults to
// today (UTC). History, when provided, is used as the transcript source
// instead of stored messages.
type GenerateJournalInput struct {
	OwnerID string
	Date    string
	History []valueobject.ConversationTurn
}

// GenerateJournalUseCase turns a day of conversation into a diary entry:
// summarize the transcript, rewrite the summary as a first-person diary,
// tag its mood, and upsert the result under the (owner, date) key.
//
// A generation failure at any stage aborts the pipeline with nothing
// persisted. A mood-tagging failure does not: the entry is saved with a
// neutral mood instead.
type GenerateJournalUseCase struct {
	messages   repository.MessageRepository
	journals   repository.JournalRepository
	llm        service.TextGenerator
	classifier service.EmotionClassifier
	bus        eventbus.Bus
	settings   JournalSettings
	logger     *zap.Logger
	now        func() time.Time
}

// NewGenerateJournalUseCase creates a journal generation use-case.
func NewGenerateJournalUseCase(
	messages repository.MessageRepository,
	journals repository.JournalRepository,
	llm service.TextGenerator,
	classifier service.EmotionClassifier,
	bus eventbus.Bus,
	settings JournalSettings,
	logger *zap.Logger,
) *GenerateJournalUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateJournalUseCase{
		messages:   messages,
		journals:   journals,
		llm:        llm,
		classifier: classifier,
		bus:        bus,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute runs the full pipeline and returns the persisted entry.
func (uc *GenerateJournalUseCase) Execute(ctx context.Context, input GenerateJournalInput) (*entity.JournalEntry, error) {
	if input.OwnerID == "" {
		return nil, domainErrors.NewInvalidInputError("missing owner identity")
	}

	date := input.Date
	if date == "" {
		date = uc.now().UTC().Format(entity.DateLayout)
	}
	day, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return nil, domainErrors.NewInvalidInputError("date must be formatted as " + entity.DateLayout)
	}

	transcript, err := uc.buildTranscript(ctx, input.OwnerID, day, input.History)
	if err != nil {
		return nil, err
	}

	start := uc.now()

	// Stage 1: distill the transcript into life events
	summary, err := uc.llm.Generate(ctx, service.SummaryPrompt(transcript), uc.settings.SummaryModel, service.GenerateOptions{
		Temperature: uc.settings.Temperature,
		MaxTokens:   uc.settings.MaxTokens,
	})
	if err != nil {
		uc.logger.Error("Summary generation failed",
			zap.String("owner_id", input.OwnerID),
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, err
	}

	// Stage 2: rewrite the summary as a diary entry
	diary, err := uc.llm.Generate(ctx, service.DiaryPrompt(summary, date), uc.settings.DiaryModel, service.GenerateOptions{
		Temperature: uc.settings.Temperature,
		MaxTokens:   uc.settings.MaxTokens,
	})
	if err != nil {
		uc.logger.Error("Diary generation failed",
			zap.String("owner_id", input.OwnerID),
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, err
	}

	// Stage 3: mood tagging, neutral on failure
	mood := valueobject.NeutralMood
	predictions, err := uc.classifier.Predict(ctx, diary)
	if err != nil {
		uc.logger.Warn("Mood tagging failed, defaulting to neutral",
			zap.String("owner_id", input.OwnerID),
			zap.String("date", date),
			zap.Error(err),
		)
	} else {
		mood = valueobject.MoodSummary(predictions)
	}

	journal, err := entity.NewJournalEntry(uuid.New().String(), input.OwnerID, date, diary, mood, true)
	if err != nil {
		return nil, domainErrors.NewInternalErrorWithCause("failed to build journal entry", err)
	}

	saved, err := uc.journals.Upsert(ctx, journal)
	if err != nil {
		uc.logger.Error("Failed to persist journal entry",
			zap.String("owner_id", input.OwnerID),
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, err
	}

	duration := uc.now().Sub(start)
	uc.logger.Info("Journal entry generated",
		zap.String("owner_id", input.OwnerID),
		zap.String("journal_id", saved.ID()),
		zap.String("date", date),
		zap.String("mood", saved.Mood()),
		zap.Duration("duration", duration),
	)

	uc.bus.Publish(ctx, eventbus.NewEvent(eventbus.EventTypeJournalGenerated, eventbus.JournalGeneratedPayload{
		OwnerID:   input.OwnerID,
		JournalID: saved.ID(),
		Date:      date,
		Mood:      saved.Mood(),
		Duration:  duration,
	}))

	return saved, nil
}

// buildTranscript renders the day's conversation. Client-provided history
// wins; otherwise stored messages within the day's UTC window are used.
func (uc *GenerateJournalUseCase) buildTranscript(ctx context.Context, ownerID string, day time.Time, history []valueobject.ConversationTurn) (string, error) {
	if len(history) > 0 {
		return service.Transcript(history), nil
	}

	from := day
	to := day.Add(24 * time.Hour)
	stored, err := uc.messages.FindByOwnerBetween(ctx, ownerID, from, to)
	if err != nil {
		return "", err
	}
	if len(stored) == 0 {
		return "", domainErrors.NewNoMessagesError("No messages found for the requested day")
	}
	return service.Transcript(service.TurnsFromMessages(stored)), nil
}
