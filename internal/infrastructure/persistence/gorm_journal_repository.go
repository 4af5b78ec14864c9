package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/persistence/models"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// GormJournalRepository GORM 实现的日记仓储
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository 创建 GORM 日记仓储
func NewGormJournalRepository(db *gorm.DB) repository.JournalRepository {
	return &GormJournalRepository{
		db: db,
	}
}

// Upsert 保存日记条目，(owner_id, date) 冲突时覆盖旧条目正文与情绪
func (r *GormJournalRepository) Upsert(ctx context.Context, journal *entity.JournalEntry) (*entity.JournalEntry, error) {
	model := r.toModel(journal)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"entry", "mood", "ai_generated", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to save journal: " + err.Error())
	}

	// 冲突覆盖时行内保留原 ID，按键重查返回实际持久化的条目
	return r.FindByOwnerAndDate(ctx, journal.OwnerID(), journal.Date())
}

// FindByOwner 返回用户的全部日记（按日期降序）
func (r *GormJournalRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.JournalEntry, error) {
	var rows []models.JournalModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date desc").
		Find(&rows).Error

	if err != nil {
		return nil, domainErrors.NewInternalError("failed to find journals: " + err.Error())
	}

	journals := make([]*entity.JournalEntry, 0, len(rows))
	for _, row := range rows {
		journals = append(journals, r.toEntity(&row))
	}
	return journals, nil
}

// FindByOwnerAndDate 按日期键查找单条日记
func (r *GormJournalRepository) FindByOwnerAndDate(ctx context.Context, ownerID, date string) (*entity.JournalEntry, error) {
	var row models.JournalModel
	err := r.db.WithContext(ctx).
		First(&row, "owner_id = ? AND date = ?", ownerID, date).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewNotFoundError("journal entry not found")
		}
		return nil, domainErrors.NewInternalError("failed to find journal: " + err.Error())
	}

	return r.toEntity(&row), nil
}

// Delete 删除用户自己的日记
func (r *GormJournalRepository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.JournalModel{})

	if result.Error != nil {
		return domainErrors.NewInternalError("failed to delete journal: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("journal entry not found")
	}
	return nil
}

// 转换方法

func (r *GormJournalRepository) toModel(journal *entity.JournalEntry) *models.JournalModel {
	return &models.JournalModel{
		ID:          journal.ID(),
		OwnerID:     journal.OwnerID(),
		Date:        journal.Date(),
		Entry:       journal.Entry(),
		Mood:        journal.Mood(),
		AIGenerated: journal.AIGenerated(),
		CreatedAt:   journal.CreatedAt(),
	}
}

func (r *GormJournalRepository) toEntity(row *models.JournalModel) *entity.JournalEntry {
	return entity.ReconstructJournalEntry(
		row.ID,
		row.OwnerID,
		row.Date,
		row.Entry,
		row.Mood,
		row.AIGenerated,
		row.CreatedAt,
	)
}
