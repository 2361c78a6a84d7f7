package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

type SpaceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, spaces []*types.Space) ([]*types.Space, error)
	GetByID(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID) (*types.Space, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Space, error)
	AdjustMemberCount(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID, delta int) error
}

type spaceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpaceRepo(db *gorm.DB, baseLog *logger.Logger) SpaceRepo {
	repoLog := baseLog.With("repo", "SpaceRepo")
	return &spaceRepo{db: db, log: repoLog}
}

func (sr *spaceRepo) Create(ctx context.Context, tx *gorm.DB, spaces []*types.Space) ([]*types.Space, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(spaces) == 0 {
		return []*types.Space{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

func (sr *spaceRepo) GetByID(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID) (*types.Space, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Space
	err := transaction.WithContext(ctx).
		Where("id = ?", spaceID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *spaceRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Space, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Space
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *spaceRepo) AdjustMemberCount(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Space{}).
		Where("id = ?", spaceID).
		Update("member_count", gorm.Expr("CASE WHEN member_count + ? < 0 THEN 0 ELSE member_count + ? END", delta, delta)).Error
}
