package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

type SpaceMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, messages []*types.SpaceMessage) ([]*types.SpaceMessage, error)
	ListBySpace(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID, limit, offset int) ([]*types.SpaceMessage, error)
}

type spaceMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpaceMessageRepo(db *gorm.DB, baseLog *logger.Logger) SpaceMessageRepo {
	repoLog := baseLog.With("repo", "SpaceMessageRepo")
	return &spaceMessageRepo{db: db, log: repoLog}
}

func (mr *spaceMessageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.SpaceMessage) ([]*types.SpaceMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(messages) == 0 {
		return []*types.SpaceMessage{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (mr *spaceMessageRepo) ListBySpace(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID, limit, offset int) ([]*types.SpaceMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var results []*types.SpaceMessage
	if err := transaction.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
