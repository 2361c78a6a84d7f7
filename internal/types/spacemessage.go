package types

import (
	"time"

	"github.com/google/uuid"
)

type SpaceMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SpaceID   uuid.UUID `gorm:"type:uuid;not null;index;column:space_id" json:"space_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Body      string    `gorm:"not null;column:body" json:"body"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (SpaceMessage) TableName() string {
	return "space_message"
}
