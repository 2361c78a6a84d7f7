package services

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/wellnest-app/wellnest-backend/internal/catalog"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

// demoDays is the fixed first-run dataset: seven days of plausible scores so
// the trends screens have something to draw before the user submits anything.
// Indexed newest-first relative to "now"; scores are per-metric in catalog
// display order.
var demoDays = []struct {
	scores   [10]float64
	babyStep string // attached to the lowest-scoring metric of the day
}{
	{scores: [10]float64{4.5, 4.2, 4.0, 4.8, 4.3, 4.6, 4.4, 4.1, 4.5, 4.7}, babyStep: "Stretch for five minutes after waking up"},
	{scores: [10]float64{4.8, 4.6, 4.7, 4.9, 4.8, 4.7, 4.6, 4.8, 4.9, 4.7}},
	{scores: [10]float64{3.8, 3.5, 3.2, 4.0, 3.6, 3.9, 3.4, 3.3, 3.7, 3.6}, babyStep: "Take a ten minute walk at lunch"},
	{scores: [10]float64{4.2, 4.0, 4.1, 4.3, 4.4, 4.2, 4.0, 4.1, 4.3, 4.4}},
	{scores: [10]float64{4.6, 4.5, 4.7, 4.8, 4.6, 4.5, 4.7, 4.6, 4.5, 4.8}},
	{scores: [10]float64{4.0, 4.1, 3.9, 4.2, 4.0, 4.3, 4.1, 4.0, 4.2, 4.1}, babyStep: "Swap the afternoon coffee for water"},
	{scores: [10]float64{4.9, 4.8, 4.7, 5.0, 4.9, 4.8, 4.9, 4.7, 4.8, 4.9}},
}

// demoHistory builds the synthetic dataset in memory. Ids are fresh per call
// and nothing here is ever persisted.
func demoHistory(userID uuid.UUID, now time.Time) []EntryWithRatings {
	cat := catalog.Default()
	ids := cat.IDs()

	out := make([]EntryWithRatings, 0, len(demoDays))
	for dayIdx, day := range demoDays {
		date := entryDateUTC(now.AddDate(0, 0, -dayIdx))

		lowest := 0
		var sum float64
		for i, s := range day.scores {
			sum += s
			if s < day.scores[lowest] {
				lowest = i
			}
		}
		overall := math.Round(sum/float64(len(day.scores))*100) / 100

		entry := &types.DailyEntry{
			ID:           uuid.New(),
			UserID:       userID,
			EntryDate:    date,
			OverallScore: overall,
			Category:     CategorizeScore(overall),
		}
		ratings := make([]*types.MetricRating, 0, len(ids))
		for i, metricID := range ids {
			r := &types.MetricRating{
				ID:        uuid.New(),
				EntryID:   entry.ID,
				UserID:    userID,
				MetricID:  metricID,
				Score:     day.scores[i],
				EntryDate: date,
			}
			if day.babyStep != "" && i == lowest {
				r.BabyStep = day.babyStep
			}
			ratings = append(ratings, r)
		}
		out = append(out, EntryWithRatings{Entry: entry, Ratings: ratings})
	}
	return out
}
