package types

import (
	"time"

	"github.com/google/uuid"
)

// MetricRating is one metric's self-assessment inside a daily entry. Scores
// use one canonical scale everywhere: a decimal in 0.1–5.0 with one decimal
// place. EntryDate is denormalized from the parent entry so the baby-steps
// ledger can scan ratings without joining.
type MetricRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntryID   uuid.UUID `gorm:"type:uuid;not null;index;column:entry_id" json:"entry_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	MetricID  string    `gorm:"not null;column:metric_id" json:"metric_id"`
	Score     float64   `gorm:"type:numeric(3,1);not null;column:score" json:"score"`
	BabyStep  string    `gorm:"column:baby_step" json:"baby_step"`
	Completed bool      `gorm:"not null;default:false;column:completed" json:"completed"`
	EntryDate string    `gorm:"not null;index;column:entry_date" json:"entry_date"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MetricRating) TableName() string {
	return "metric_rating"
}
