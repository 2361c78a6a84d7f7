package services

import (
	"math"
	"testing"

	"github.com/wellnest-app/wellnest-backend/internal/catalog"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

func fullRatings(score float64) []RatingInput {
	cat := catalog.Default()
	out := make([]RatingInput, 0, cat.Size())
	for _, id := range cat.IDs() {
		out = append(out, RatingInput{MetricID: id, Score: score})
	}
	return out
}

func TestCategorizeScoreBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  types.ScoreCategory
	}{
		{3.5, types.CategoryUnhealthy},
		{3.99, types.CategoryUnhealthy},
		{4.0, types.CategoryHealthy},
		{4.1, types.CategoryHealthy},
		{4.49, types.CategoryHealthy},
		{4.5, types.CategoryGreat},
		{4.69, types.CategoryGreat},
		{4.7, types.CategoryAmazing},
		{4.8, types.CategoryAmazing},
		{5.0, types.CategoryAmazing},
		{0.0, types.CategoryUnhealthy},
	}
	for _, tc := range cases {
		if got := CategorizeScore(tc.score); got != tc.want {
			t.Fatalf("CategorizeScore(%v)=%s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestAggregateScoreIsExactMean(t *testing.T) {
	cat := catalog.Default()

	ratings := fullRatings(4.0)
	ratings[len(ratings)-1].Score = 5.0
	got, err := AggregateScore(cat, ratings)
	if err != nil {
		t.Fatalf("AggregateScore error: %v", err)
	}
	if math.Abs(got-4.1) > 1e-9 {
		t.Fatalf("AggregateScore=%v, want 4.1", got)
	}
	if CategorizeScore(got) != types.CategoryHealthy {
		t.Fatalf("mean 4.1 should categorize healthy, got %s", CategorizeScore(got))
	}

	got, err = AggregateScore(cat, fullRatings(4.8))
	if err != nil {
		t.Fatalf("AggregateScore error: %v", err)
	}
	if math.Abs(got-4.8) > 1e-9 || CategorizeScore(got) != types.CategoryAmazing {
		t.Fatalf("all 4.8 → (%v, %s), want (4.8, amazing)", got, CategorizeScore(got))
	}

	got, err = AggregateScore(cat, fullRatings(3.5))
	if err != nil {
		t.Fatalf("AggregateScore error: %v", err)
	}
	if math.Abs(got-3.5) > 1e-9 || CategorizeScore(got) != types.CategoryUnhealthy {
		t.Fatalf("all 3.5 → (%v, %s), want (3.5, unhealthy)", got, CategorizeScore(got))
	}
}

func TestValidateRatingsRejectsIncompleteSets(t *testing.T) {
	cat := catalog.Default()
	cases := []struct {
		name    string
		ratings []RatingInput
	}{
		{"empty", nil},
		{"missing_metric", fullRatings(4.0)[:9]},
		{"zero_score", append(fullRatings(4.0)[:9], RatingInput{MetricID: "mood", Score: 0})},
		{"over_max", append(fullRatings(4.0)[:9], RatingInput{MetricID: "mood", Score: 5.1})},
		{"unknown_metric", append(fullRatings(4.0)[:9], RatingInput{MetricID: "steps", Score: 4.0})},
		{"duplicate_metric", append(fullRatings(4.0)[:9], RatingInput{MetricID: "sleep", Score: 4.0})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := AggregateScore(cat, tc.ratings); err == nil {
				t.Fatalf("AggregateScore accepted invalid set %s", tc.name)
			}
		})
	}
}

func TestRoundScore(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.55, 4.6},
		{4.04, 4.0},
		{-1, 0},
		{6, 5},
		{3.999999, 4.0},
	}
	for _, tc := range cases {
		if got := RoundScore(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("RoundScore(%v)=%v, want %v", tc.in, got, tc.want)
		}
	}
}
