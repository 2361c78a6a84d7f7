package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

type MetricRatingRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, ratings []*types.MetricRating) ([]*types.MetricRating, error)
	DeleteByEntryID(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) error
	ListByEntryIDs(ctx context.Context, tx *gorm.DB, entryIDs []uuid.UUID) ([]*types.MetricRating, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MetricRating, error)
	GetByEntryAndMetric(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, metricID string) (*types.MetricRating, error)
	UpdateCompletion(ctx context.Context, tx *gorm.DB, ratingID uuid.UUID, completed bool) error
	UpdateBabyStepText(ctx context.Context, tx *gorm.DB, ratingID uuid.UUID, text string) error
}

type metricRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMetricRatingRepo(db *gorm.DB, baseLog *logger.Logger) MetricRatingRepo {
	repoLog := baseLog.With("repo", "MetricRatingRepo")
	return &metricRatingRepo{db: db, log: repoLog}
}

func (rr *metricRatingRepo) CreateBatch(ctx context.Context, tx *gorm.DB, ratings []*types.MetricRating) ([]*types.MetricRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(ratings) == 0 {
		return []*types.MetricRating{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (rr *metricRatingRepo) DeleteByEntryID(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Delete(&types.MetricRating{}).Error
}

func (rr *metricRatingRepo) ListByEntryIDs(ctx context.Context, tx *gorm.DB, entryIDs []uuid.UUID) ([]*types.MetricRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.MetricRating
	if len(entryIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("entry_id IN ?", entryIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *metricRatingRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MetricRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.MetricRating
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByEntryAndMetric returns nil (no error) when the rating row does not
// exist; the baby-steps toggle treats that as a gentle not-found, not a fault.
func (rr *metricRatingRepo) GetByEntryAndMetric(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, metricID string) (*types.MetricRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var result types.MetricRating
	err := transaction.WithContext(ctx).
		Where("entry_id = ? AND metric_id = ?", entryID, metricID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *metricRatingRepo) UpdateCompletion(ctx context.Context, tx *gorm.DB, ratingID uuid.UUID, completed bool) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.MetricRating{}).
		Where("id = ?", ratingID).
		Update("completed", completed).Error
}

func (rr *metricRatingRepo) UpdateBabyStepText(ctx context.Context, tx *gorm.DB, ratingID uuid.UUID, text string) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.MetricRating{}).
		Where("id = ?", ratingID).
		Update("baby_step", text).Error
}
