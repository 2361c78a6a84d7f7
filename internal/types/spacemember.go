package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SpaceRoleOwner  = "owner"
	SpaceRoleMember = "member"
)

type SpaceMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SpaceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_space_member_space_user;column:space_id" json:"space_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_space_member_space_user;column:user_id" json:"user_id"`
	Role      string    `gorm:"not null;default:'member';column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (SpaceMember) TableName() string {
	return "space_member"
}
