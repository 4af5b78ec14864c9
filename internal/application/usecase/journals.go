package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// JournalQueryUseCase read and delete operations over an owner's journals.
type JournalQueryUseCase struct {
	journals repository.JournalRepository
	logger   *zap.Logger
}

// NewJournalQueryUseCase creates a journal query use-case.
func NewJournalQueryUseCase(journals repository.JournalRepository, logger *zap.Logger) *JournalQueryUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalQueryUseCase{
		journals: journals,
		logger:   logger,
	}
}

// List returns the owner's journals, newest date first.
func (uc *JournalQueryUseCase) List(ctx context.Context, ownerID string) ([]*entity.JournalEntry, error) {
	if ownerID == "" {
		return nil, domainErrors.NewInvalidInputError("missing owner identity")
	}
	return uc.journals.FindByOwner(ctx, ownerID)
}

// Delete removes one of the owner's journals. Deleting another owner's
// journal, or a nonexistent one, returns NotFound.
func (uc *JournalQueryUseCase) Delete(ctx context.Context, ownerID, journalID string) error {
	if ownerID == "" {
		return domainErrors.NewInvalidInputError("missing owner identity")
	}
	if journalID == "" {
		return domainErrors.NewInvalidInputError("missing journal id")
	}

	if err := uc.journals.Delete(ctx, ownerID, journalID); err != nil {
		return err
	}

	uc.logger.Info("Journal entry deleted",
		zap.String("owner_id", ownerID),
		zap.String("journal_id", journalID),
	)
	return nil
}
