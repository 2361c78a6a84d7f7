package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/requestdata"
	"github.com/wellnest-app/wellnest-backend/internal/sse"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

var (
	ErrSpaceNotFound  = errors.New("space not found")
	ErrNotSpaceMember = errors.New("not a member of this space")
)

type SpaceService interface {
	CreateSpace(ctx context.Context, name, description string) (*types.Space, error)
	ListSpaces(ctx context.Context) ([]*types.Space, error)
	JoinSpace(ctx context.Context, spaceID uuid.UUID) (*types.SpaceMember, error)
	LeaveSpace(ctx context.Context, spaceID uuid.UUID) error
	PostMessage(ctx context.Context, spaceID uuid.UUID, body string) (*types.SpaceMessage, error)
	ListMessages(ctx context.Context, spaceID uuid.UUID, limit, offset int) ([]*types.SpaceMessage, error)
}

type spaceService struct {
	db          *gorm.DB
	log         *logger.Logger
	spaceRepo   repos.SpaceRepo
	memberRepo  repos.SpaceMemberRepo
	messageRepo repos.SpaceMessageRepo
	notifier    Notifier
}

func NewSpaceService(
	db *gorm.DB,
	log *logger.Logger,
	spaceRepo repos.SpaceRepo,
	memberRepo repos.SpaceMemberRepo,
	messageRepo repos.SpaceMessageRepo,
	notifier Notifier,
) SpaceService {
	serviceLog := log.With("service", "SpaceService")
	return &spaceService{
		db:          db,
		log:         serviceLog,
		spaceRepo:   spaceRepo,
		memberRepo:  memberRepo,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

func (ss *spaceService) CreateSpace(ctx context.Context, name, description string) (*types.Space, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name required")
	}

	var out *types.Space
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		space := &types.Space{
			ID:          uuid.New(),
			Name:        name,
			Description: strings.TrimSpace(description),
			OwnerID:     rd.UserID,
			MemberCount: 1,
		}
		if _, err := ss.spaceRepo.Create(ctx, tx, []*types.Space{space}); err != nil {
			return fmt.Errorf("failed to create space: %w", err)
		}
		owner := &types.SpaceMember{
			ID:      uuid.New(),
			SpaceID: space.ID,
			UserID:  rd.UserID,
			Role:    types.SpaceRoleOwner,
		}
		if _, err := ss.memberRepo.Create(ctx, tx, []*types.SpaceMember{owner}); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}
		out = space
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *spaceService) ListSpaces(ctx context.Context) ([]*types.Space, error) {
	return ss.spaceRepo.List(ctx, nil)
}

// JoinSpace is idempotent: joining a space you already belong to returns the
// existing membership.
func (ss *spaceService) JoinSpace(ctx context.Context, spaceID uuid.UUID) (*types.SpaceMember, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	var out *types.SpaceMember
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		space, err := ss.spaceRepo.GetByID(ctx, tx, spaceID)
		if err != nil {
			return fmt.Errorf("failed to load space: %w", err)
		}
		if space == nil {
			return ErrSpaceNotFound
		}
		existing, err := ss.memberRepo.Get(ctx, tx, spaceID, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if existing != nil {
			out = existing
			return nil
		}
		member := &types.SpaceMember{
			ID:      uuid.New(),
			SpaceID: spaceID,
			UserID:  rd.UserID,
			Role:    types.SpaceRoleMember,
		}
		if _, err := ss.memberRepo.Create(ctx, tx, []*types.SpaceMember{member}); err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}
		if err := ss.spaceRepo.AdjustMemberCount(ctx, tx, spaceID, 1); err != nil {
			return fmt.Errorf("failed to bump member count: %w", err)
		}
		out = member
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *spaceService) LeaveSpace(ctx context.Context, spaceID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("unauthorized")
	}

	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := ss.memberRepo.Get(ctx, tx, spaceID, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if member == nil {
			// Leaving a space you're not in is a no-op.
			return nil
		}
		if member.Role == types.SpaceRoleOwner {
			return fmt.Errorf("owner cannot leave their space")
		}
		if err := ss.memberRepo.Delete(ctx, tx, spaceID, rd.UserID); err != nil {
			return fmt.Errorf("failed to delete membership: %w", err)
		}
		if err := ss.spaceRepo.AdjustMemberCount(ctx, tx, spaceID, -1); err != nil {
			return fmt.Errorf("failed to drop member count: %w", err)
		}
		return nil
	})
}

func (ss *spaceService) PostMessage(ctx context.Context, spaceID uuid.UUID, body string) (*types.SpaceMessage, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message body required")
	}
	if len(body) > 4000 {
		return nil, fmt.Errorf("message too long")
	}

	var out *types.SpaceMessage
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := ss.memberRepo.Get(ctx, tx, spaceID, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if member == nil {
			return ErrNotSpaceMember
		}
		message := &types.SpaceMessage{
			ID:       uuid.New(),
			SpaceID:  spaceID,
			AuthorID: rd.UserID,
			Body:     body,
		}
		if _, err := ss.messageRepo.Create(ctx, tx, []*types.SpaceMessage{message}); err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		out = message
		return nil
	}); err != nil {
		return nil, err
	}

	if ss.notifier != nil {
		ss.notifier.Emit(ctx, sse.SSEMessage{
			Channel: sse.SpaceChannel(spaceID),
			Event:   sse.SSEEventSpaceMessageCreated,
			Data:    out,
		})
	}

	return out, nil
}

func (ss *spaceService) ListMessages(ctx context.Context, spaceID uuid.UUID, limit, offset int) ([]*types.SpaceMessage, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	member, err := ss.memberRepo.Get(ctx, nil, spaceID, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return nil, ErrNotSpaceMember
	}
	return ss.messageRepo.ListBySpace(ctx, nil, spaceID, limit, offset)
}
