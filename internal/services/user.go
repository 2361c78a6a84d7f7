package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/requestdata"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
	UpdateAvatarColor(ctx context.Context, avatarColor string) (*types.User, error)
	UploadAvatarImage(ctx context.Context, raw []byte) (*types.User, error)
	Stars(ctx context.Context) (int, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	found, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("user does not exist")
	}
	return found[0], nil
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first_name and last_name required")
	}

	var out *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil || len(found) == 0 || found[0] == nil {
			return fmt.Errorf("user not found")
		}
		u := found[0]

		if err := us.userRepo.UpdateName(ctx, tx, rd.UserID, firstName, lastName); err != nil {
			return err
		}

		u.FirstName = firstName
		u.LastName = lastName

		// Regenerate initials avatar (keeps existing AvatarColor)
		if us.avatarService != nil {
			if err := us.avatarService.CreateAndUploadUserAvatar(ctx, u); err != nil {
				return err
			}
			if err := us.userRepo.UpdateAvatarFields(ctx, tx, rd.UserID, u.AvatarBucketKey, u.AvatarURL); err != nil {
				return err
			}
		}

		out = u
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) UpdateAvatarColor(ctx context.Context, avatarColor string) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	avatarColor = strings.ToUpper(strings.TrimSpace(avatarColor))
	if avatarColor == "" {
		return nil, fmt.Errorf("avatar_color required")
	}

	var out *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil || len(found) == 0 || found[0] == nil {
			return fmt.Errorf("user not found")
		}
		u := found[0]

		if err := us.userRepo.UpdateAvatarColor(ctx, tx, rd.UserID, avatarColor); err != nil {
			return err
		}
		u.AvatarColor = avatarColor

		if us.avatarService != nil {
			if err := us.avatarService.CreateAndUploadUserAvatar(ctx, u); err != nil {
				return err
			}
			if err := us.userRepo.UpdateAvatarFields(ctx, tx, rd.UserID, u.AvatarBucketKey, u.AvatarURL); err != nil {
				return err
			}
		}

		out = u
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) UploadAvatarImage(ctx context.Context, raw []byte) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty upload")
	}
	if us.avatarService == nil {
		return nil, fmt.Errorf("avatar storage not configured")
	}

	var out *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil || len(found) == 0 || found[0] == nil {
			return fmt.Errorf("user not found")
		}
		u := found[0]

		if err := us.avatarService.CreateAndUploadUserAvatarFromImage(ctx, u, raw); err != nil {
			return err
		}
		if err := us.userRepo.UpdateAvatarFields(ctx, tx, rd.UserID, u.AvatarBucketKey, u.AvatarURL); err != nil {
			return err
		}

		out = u
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) Stars(ctx context.Context) (int, error) {
	me, err := us.GetMe(ctx)
	if err != nil {
		return 0, err
	}
	return me.Stars, nil
}
