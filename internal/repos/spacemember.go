package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

type SpaceMemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, members []*types.SpaceMember) ([]*types.SpaceMember, error)
	Get(ctx context.Context, tx *gorm.DB, spaceID, userID uuid.UUID) (*types.SpaceMember, error)
	ListBySpace(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID) ([]*types.SpaceMember, error)
	Delete(ctx context.Context, tx *gorm.DB, spaceID, userID uuid.UUID) error
}

type spaceMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpaceMemberRepo(db *gorm.DB, baseLog *logger.Logger) SpaceMemberRepo {
	repoLog := baseLog.With("repo", "SpaceMemberRepo")
	return &spaceMemberRepo{db: db, log: repoLog}
}

func (mr *spaceMemberRepo) Create(ctx context.Context, tx *gorm.DB, members []*types.SpaceMember) ([]*types.SpaceMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(members) == 0 {
		return []*types.SpaceMember{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (mr *spaceMemberRepo) Get(ctx context.Context, tx *gorm.DB, spaceID, userID uuid.UUID) (*types.SpaceMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.SpaceMember
	err := transaction.WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *spaceMemberRepo) ListBySpace(ctx context.Context, tx *gorm.DB, spaceID uuid.UUID) ([]*types.SpaceMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.SpaceMember
	if err := transaction.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *spaceMemberRepo) Delete(ctx context.Context, tx *gorm.DB, spaceID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Delete(&types.SpaceMember{}).Error
}
