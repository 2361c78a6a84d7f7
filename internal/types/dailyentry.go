package types

import (
	"time"

	"github.com/google/uuid"
)

// ScoreCategory is the ordinal wellness band derived from the overall score.
type ScoreCategory string

const (
	CategoryUnhealthy ScoreCategory = "unhealthy"
	CategoryHealthy   ScoreCategory = "healthy"
	CategoryGreat     ScoreCategory = "great"
	CategoryAmazing   ScoreCategory = "amazing"
)

// DailyEntry is one user's full wellness submission for one calendar day.
// EntryDate is a date-only string (YYYY-MM-DD, UTC); the unique index on
// (user_id, entry_date) is what makes same-day resubmission an update.
type DailyEntry struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_daily_entry_user_date;column:user_id" json:"user_id"`
	EntryDate    string        `gorm:"not null;uniqueIndex:idx_daily_entry_user_date;column:entry_date" json:"entry_date"`
	OverallScore float64       `gorm:"type:numeric(4,2);not null;column:overall_score" json:"overall_score"`
	Category     ScoreCategory `gorm:"not null;column:category" json:"category"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
}

func (DailyEntry) TableName() string {
	return "daily_entry"
}
