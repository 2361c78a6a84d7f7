package services

import (
	"fmt"
	"math"

	"github.com/wellnest-app/wellnest-backend/internal/catalog"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

// RatingInput is one metric's submission payload.
type RatingInput struct {
	MetricID string  `json:"metric_id"`
	Score    float64 `json:"score"`
	BabyStep string  `json:"baby_step"`
}

// RoundScore clamps a score into [0,5] and rounds to one decimal place, the
// single canonical scale for stored scores.
func RoundScore(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 5 {
		score = 5
	}
	return math.Round(score*10) / 10
}

// ValidateRatings checks that a submission covers every catalog metric
// exactly once with a nonzero score. Aggregation is only defined over a
// complete set; this is the explicit precondition rather than an implicit
// gate in the UI.
func ValidateRatings(cat *catalog.Catalog, ratings []RatingInput) error {
	if len(ratings) == 0 {
		return fmt.Errorf("no ratings submitted")
	}
	seen := make(map[string]bool, len(ratings))
	for _, r := range ratings {
		if _, ok := cat.Get(r.MetricID); !ok {
			return fmt.Errorf("unknown metric %q", r.MetricID)
		}
		if seen[r.MetricID] {
			return fmt.Errorf("duplicate rating for metric %q", r.MetricID)
		}
		seen[r.MetricID] = true
		if r.Score <= 0 || r.Score > 5 {
			return fmt.Errorf("metric %q score must be in (0,5], got %v", r.MetricID, r.Score)
		}
	}
	if len(seen) != cat.Size() {
		return fmt.Errorf("all %d metrics must be rated, got %d", cat.Size(), len(seen))
	}
	return nil
}

// AggregateScore computes the arithmetic mean of a validated rating set.
func AggregateScore(cat *catalog.Catalog, ratings []RatingInput) (float64, error) {
	if err := ValidateRatings(cat, ratings); err != nil {
		return 0, err
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Score
	}
	return sum / float64(len(ratings)), nil
}

// CategorizeScore maps an overall score onto the four wellness bands. The
// bucket boundaries are deliberately non-uniform and must not be adjusted.
func CategorizeScore(score float64) types.ScoreCategory {
	switch {
	case score < 4.0:
		return types.CategoryUnhealthy
	case score < 4.5:
		return types.CategoryHealthy
	case score < 4.7:
		return types.CategoryGreat
	default:
		return types.CategoryAmazing
	}
}
