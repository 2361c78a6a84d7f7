package types

import (
	"time"

	"github.com/google/uuid"
)

// Space is a lightweight community room for wellness messaging.
type Space struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index;column:owner_id" json:"owner_id"`
	MemberCount int       `gorm:"not null;default:0;column:member_count" json:"member_count"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Space) TableName() string {
	return "space"
}
