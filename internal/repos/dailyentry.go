package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

type DailyEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.DailyEntry) ([]*types.DailyEntry, error)
	GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, entryDate string) (*types.DailyEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DailyEntry, error)
	UpdateScore(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, overallScore float64, category types.ScoreCategory) error
}

type dailyEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyEntryRepo(db *gorm.DB, baseLog *logger.Logger) DailyEntryRepo {
	repoLog := baseLog.With("repo", "DailyEntryRepo")
	return &dailyEntryRepo{db: db, log: repoLog}
}

func (er *dailyEntryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.DailyEntry) ([]*types.DailyEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if len(entries) == 0 {
		return []*types.DailyEntry{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByUserAndDate returns nil (no error) when the user has no entry for the
// date, so callers can branch on update-vs-insert without unwrapping gorm.
func (er *dailyEntryRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, entryDate string) (*types.DailyEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var result types.DailyEntry
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND entry_date = ?", userID, entryDate).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *dailyEntryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DailyEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.DailyEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *dailyEntryRepo) UpdateScore(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, overallScore float64, category types.ScoreCategory) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DailyEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]interface{}{"overall_score": overallScore, "category": category}).Error
}
