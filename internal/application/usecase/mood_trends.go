package usecase

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// trendConcurrency caps parallel classifier calls per trend request.
const trendConcurrency = 4

// TrendPoint one journal's emotional reading on the timeline.
type TrendPoint struct {
	Date        string
	Mood        string
	Predictions []valueobject.EmotionPrediction
}

// MoodTrendsUseCase re-classifies each of the owner's journal entries and
// returns the results ordered by date ascending, oldest first, so they plot
// as a timeline. A classifier failure on one entry yields a point with no
// predictions rather than failing the whole request.
type MoodTrendsUseCase struct {
	journals   repository.JournalRepository
	classifier service.EmotionClassifier
	logger     *zap.Logger
}

// NewMoodTrendsUseCase creates a mood trends use-case.
func NewMoodTrendsUseCase(
	journals repository.JournalRepository,
	classifier service.EmotionClassifier,
	logger *zap.Logger,
) *MoodTrendsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MoodTrendsUseCase{
		journals:   journals,
		classifier: classifier,
		logger:     logger,
	}
}

// Execute builds the owner's mood timeline.
func (uc *MoodTrendsUseCase) Execute(ctx context.Context, ownerID string) ([]TrendPoint, error) {
	if ownerID == "" {
		return nil, domainErrors.NewInvalidInputError("missing owner identity")
	}

	entries, err := uc.journals.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, len(entries))
	sem := make(chan struct{}, trendConcurrency)
	var wg sync.WaitGroup

	for i, entry := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, date, text, mood string) {
			defer wg.Done()
			defer func() { <-sem }()

			predictions, err := uc.classifier.Predict(ctx, text)
			if err != nil {
				uc.logger.Warn("Trend classification failed for entry",
					zap.String("owner_id", ownerID),
					zap.String("date", date),
					zap.Error(err),
				)
				predictions = nil
			}
			points[i] = TrendPoint{
				Date:        date,
				Mood:        mood,
				Predictions: predictions,
			}
		}(i, entry.Date(), entry.Entry(), entry.Mood())
	}
	wg.Wait()

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points, nil
}
