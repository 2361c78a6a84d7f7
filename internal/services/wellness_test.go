package services

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/catalog"
	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

func newWellnessFixture(t *testing.T) (WellnessService, *gorm.DB, *types.User) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	user := seedUser(t, db)
	svc := NewWellnessService(
		db,
		log,
		catalog.Default(),
		repos.NewDailyEntryRepo(db, log),
		repos.NewMetricRatingRepo(db, log),
		nil,
	)
	return svc, db, user
}

func TestSubmitDayCreatesEntry(t *testing.T) {
	svc, db, user := newWellnessFixture(t)
	ctx := authedCtx(user.ID)

	ratings := fullRatings(4.0)
	ratings[len(ratings)-1].Score = 5.0
	ratings[0].BabyStep = "Go to bed before midnight"

	out, err := svc.SubmitDay(ctx, ratings)
	if err != nil {
		t.Fatalf("SubmitDay: %v", err)
	}
	if math.Abs(out.Entry.OverallScore-4.1) > 1e-9 {
		t.Fatalf("overall score = %v, want 4.1", out.Entry.OverallScore)
	}
	if out.Entry.Category != types.CategoryHealthy {
		t.Fatalf("category = %s, want %s", out.Entry.Category, types.CategoryHealthy)
	}
	if out.Entry.EntryDate != entryDateUTC(time.Now()) {
		t.Fatalf("entry date = %q, want today (UTC)", out.Entry.EntryDate)
	}
	if len(out.Ratings) != catalog.Default().Size() {
		t.Fatalf("stored %d ratings, want %d", len(out.Ratings), catalog.Default().Size())
	}
	for _, r := range out.Ratings {
		if r.Completed {
			t.Fatalf("fresh rating %q should start incomplete", r.MetricID)
		}
	}

	var count int64
	if err := db.Model(&types.DailyEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 persisted entry, got %d", count)
	}
}

func TestSubmitDayCategorizesExactMean(t *testing.T) {
	// Means chosen to sit just under or on a band boundary, where rounding
	// the mean before categorizing would flip the band.
	cases := []struct {
		name          string
		base, outlier float64
		wantScore     float64
		wantCategory  types.ScoreCategory
	}{
		{"just under great", 4.5, 4.1, 4.46, types.CategoryHealthy},
		{"exactly great", 4.5, 4.5, 4.5, types.CategoryGreat},
		{"just under amazing", 4.7, 4.6, 4.69, types.CategoryGreat},
		{"exactly amazing", 4.7, 4.7, 4.7, types.CategoryAmazing},
		{"just under healthy", 4.0, 3.9, 3.99, types.CategoryUnhealthy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, user := newWellnessFixture(t)
			ratings := fullRatings(tc.base)
			ratings[0].Score = tc.outlier

			out, err := svc.SubmitDay(authedCtx(user.ID), ratings)
			if err != nil {
				t.Fatalf("SubmitDay: %v", err)
			}
			if math.Abs(out.Entry.OverallScore-tc.wantScore) > 1e-9 {
				t.Fatalf("overall score = %v, want %v", out.Entry.OverallScore, tc.wantScore)
			}
			if out.Entry.Category != tc.wantCategory {
				t.Fatalf("category = %s, want %s", out.Entry.Category, tc.wantCategory)
			}
		})
	}
}

func TestSubmitDaySameDayReplaces(t *testing.T) {
	svc, db, user := newWellnessFixture(t)
	ctx := authedCtx(user.ID)

	first, err := svc.SubmitDay(ctx, fullRatings(3.0))
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	second, err := svc.SubmitDay(ctx, fullRatings(4.8))
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if second.Entry.ID != first.Entry.ID {
		t.Fatalf("resubmission must update the same entry, got a new id")
	}
	if math.Abs(second.Entry.OverallScore-4.8) > 1e-9 {
		t.Fatalf("overall score = %v, want 4.8", second.Entry.OverallScore)
	}
	if second.Entry.Category != types.CategoryAmazing {
		t.Fatalf("category = %s, want %s", second.Entry.Category, types.CategoryAmazing)
	}

	var entryCount, ratingCount int64
	if err := db.Model(&types.DailyEntry{}).Count(&entryCount).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if err := db.Model(&types.MetricRating{}).Count(&ratingCount).Error; err != nil {
		t.Fatalf("count ratings: %v", err)
	}
	if entryCount != 1 {
		t.Fatalf("expected 1 entry after resubmission, got %d", entryCount)
	}
	if ratingCount != int64(catalog.Default().Size()) {
		t.Fatalf("expected old ratings replaced, got %d rows", ratingCount)
	}

	var scores []float64
	if err := db.Model(&types.MetricRating{}).Pluck("score", &scores).Error; err != nil {
		t.Fatalf("load scores: %v", err)
	}
	for _, s := range scores {
		if math.Abs(s-4.8) > 1e-9 {
			t.Fatalf("stale rating score %v survived resubmission", s)
		}
	}
}

func TestSubmitDayRejectsIncompleteSets(t *testing.T) {
	svc, _, user := newWellnessFixture(t)
	ctx := authedCtx(user.ID)

	cases := []struct {
		name    string
		ratings []RatingInput
	}{
		{"empty", nil},
		{"missing one metric", fullRatings(4.0)[:catalog.Default().Size()-1]},
		{"unknown metric", append(fullRatings(4.0)[:catalog.Default().Size()-1], RatingInput{MetricID: "steps", Score: 4.0})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SubmitDay(ctx, tc.ratings); err == nil {
				t.Fatalf("expected rejection")
			}
		})
	}
}

func TestLoadHistoryDemoFallback(t *testing.T) {
	svc, db, user := newWellnessFixture(t)

	history, err := svc.LoadHistory(authedCtx(user.ID))
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if !history.Demo {
		t.Fatalf("history with no submissions should be flagged demo")
	}
	if len(history.Entries) != 7 {
		t.Fatalf("demo history has %d days, want 7", len(history.Entries))
	}
	for i, e := range history.Entries {
		if len(e.Ratings) != catalog.Default().Size() {
			t.Fatalf("demo day %d has %d ratings", i, len(e.Ratings))
		}
		if e.Entry.Category != CategorizeScore(e.Entry.OverallScore) {
			t.Fatalf("demo day %d category %s does not match score %v", i, e.Entry.Category, e.Entry.OverallScore)
		}
		if i > 0 && e.Entry.EntryDate >= history.Entries[i-1].Entry.EntryDate {
			t.Fatalf("demo history must be newest-first")
		}
	}

	// The fallback must never be persisted.
	var entryCount, ratingCount int64
	if err := db.Model(&types.DailyEntry{}).Count(&entryCount).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if err := db.Model(&types.MetricRating{}).Count(&ratingCount).Error; err != nil {
		t.Fatalf("count ratings: %v", err)
	}
	if entryCount != 0 || ratingCount != 0 {
		t.Fatalf("demo data leaked into storage: %d entries, %d ratings", entryCount, ratingCount)
	}
}

func TestLoadHistoryAfterSubmission(t *testing.T) {
	svc, _, user := newWellnessFixture(t)
	ctx := authedCtx(user.ID)

	if _, err := svc.SubmitDay(ctx, fullRatings(4.6)); err != nil {
		t.Fatalf("SubmitDay: %v", err)
	}

	history, err := svc.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if history.Demo {
		t.Fatalf("history after a real submission must not be demo")
	}
	if len(history.Entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history.Entries))
	}
	if len(history.Entries[0].Ratings) != catalog.Default().Size() {
		t.Fatalf("entry hydrated with %d ratings", len(history.Entries[0].Ratings))
	}
	if history.Entries[0].Entry.Category != types.CategoryGreat {
		t.Fatalf("category = %s, want %s", history.Entries[0].Entry.Category, types.CategoryGreat)
	}
}

func TestDemoHistoryBabyStepOnLowestMetric(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	days := demoHistory(uuid.New(), now)

	for i, day := range days {
		var withStep []*types.MetricRating
		lowest := day.Ratings[0]
		for _, r := range day.Ratings {
			if r.Score < lowest.Score {
				lowest = r
			}
			if r.BabyStep != "" {
				withStep = append(withStep, r)
			}
		}
		if len(withStep) == 0 {
			continue
		}
		if len(withStep) != 1 {
			t.Fatalf("demo day %d has %d baby steps, want at most 1", i, len(withStep))
		}
		if withStep[0].MetricID != lowest.MetricID {
			t.Fatalf("demo day %d baby step on %q, want lowest metric %q", i, withStep[0].MetricID, lowest.MetricID)
		}
	}
}
