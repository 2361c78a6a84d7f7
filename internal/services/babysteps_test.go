package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

func rating(metricID, text, date string, completed bool) *types.MetricRating {
	return &types.MetricRating{
		ID:        uuid.New(),
		EntryID:   uuid.New(),
		UserID:    uuid.New(),
		MetricID:  metricID,
		Score:     3.0,
		BabyStep:  text,
		Completed: completed,
		EntryDate: date,
	}
}

func TestDeriveBabyStepGroups(t *testing.T) {
	// Newest-first, the order the repo returns.
	ratings := []*types.MetricRating{
		rating("sleep", "Go to bed before midnight", "2026-08-30", true),
		rating("mood", "Call a friend", "2026-08-29", true),
		rating("sleep", "Go to bed before midnight", "2026-08-29", false),
		rating("exercise", "", "2026-08-28", false),
		rating("sleep", "Go to bed before midnight", "2026-08-28", true),
	}

	groups := deriveBabyStepGroups(ratings)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	sleep := groups[0]
	if sleep.MetricID != "sleep" {
		t.Fatalf("expected sleep group first (newest representative), got %q", sleep.MetricID)
	}
	if sleep.Occurrences != 3 {
		t.Fatalf("sleep occurrences = %d, want 3", sleep.Occurrences)
	}
	if sleep.CompletedCount != 2 {
		t.Fatalf("sleep completed count = %d, want 2", sleep.CompletedCount)
	}
	if sleep.Representative.EntryDate != "2026-08-30" || !sleep.Representative.Completed {
		t.Fatalf("sleep representative should be the newest instance, got %+v", sleep.Representative)
	}

	mood := groups[1]
	if mood.MetricID != "mood" || mood.Occurrences != 1 || mood.CompletedCount != 1 {
		t.Fatalf("unexpected mood group: %+v", mood)
	}
}

func TestDeriveBabyStepGroupsDistinctTextsStaySeparate(t *testing.T) {
	ratings := []*types.MetricRating{
		rating("sleep", "Go to bed before midnight", "2026-08-30", false),
		rating("sleep", "No screens after 10pm", "2026-08-29", false),
	}
	groups := deriveBabyStepGroups(ratings)
	if len(groups) != 2 {
		t.Fatalf("same metric with different texts should be 2 groups, got %d", len(groups))
	}
}

func TestDeriveBabyStepGroupsEmpty(t *testing.T) {
	if got := deriveBabyStepGroups(nil); len(got) != 0 {
		t.Fatalf("expected no groups, got %d", len(got))
	}
}

func TestIsActiveStep(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		date      string
		completed bool
		want      bool
	}{
		{"incomplete is always active", "2026-01-01", false, true},
		{"completed today", "2026-08-30", true, true},
		{"completed within window", "2026-08-24", true, true},
		{"completed outside window", "2026-08-20", true, false},
		{"bad date drops out", "not-a-date", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := BabyStepGroup{Representative: rating("sleep", "x", tc.date, tc.completed)}
			if got := isActiveStep(g, now); got != tc.want {
				t.Fatalf("isActiveStep(%s, completed=%v) = %v, want %v", tc.date, tc.completed, got, tc.want)
			}
		})
	}
}

func newBabyStepsFixture(t *testing.T) (BabyStepsService, *types.User, *types.DailyEntry, func(metricID, text string, completed bool) *types.MetricRating) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	user := seedUser(t, db)

	entry := &types.DailyEntry{
		ID:           uuid.New(),
		UserID:       user.ID,
		EntryDate:    entryDateUTC(time.Now()),
		OverallScore: 4.0,
		Category:     types.CategoryHealthy,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	seedRating := func(metricID, text string, completed bool) *types.MetricRating {
		r := &types.MetricRating{
			ID:        uuid.New(),
			EntryID:   entry.ID,
			UserID:    user.ID,
			MetricID:  metricID,
			Score:     3.2,
			BabyStep:  text,
			Completed: completed,
			EntryDate: entry.EntryDate,
		}
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("failed to seed rating: %v", err)
		}
		return r
	}

	svc := NewBabyStepsService(
		db,
		log,
		repos.NewDailyEntryRepo(db, log),
		repos.NewMetricRatingRepo(db, log),
		repos.NewUserRepo(db, log),
		nil,
	)
	return svc, user, entry, seedRating
}

func TestToggleCompletionAdjustsStars(t *testing.T) {
	svc, user, _, seedRating := newBabyStepsFixture(t)
	seedRating("sleep", "Go to bed before midnight", false)
	ctx := authedCtx(user.ID)

	res, err := svc.ToggleCompletion(ctx, "sleep", true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.Rating.Completed || res.Stars != 1 {
		t.Fatalf("after completing: completed=%v stars=%d, want true/1", res.Rating.Completed, res.Stars)
	}

	// Same state again is a no-op; stars must not double-count.
	res, err = svc.ToggleCompletion(ctx, "sleep", true)
	if err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if res.Stars != 1 {
		t.Fatalf("repeat completing changed stars to %d, want 1", res.Stars)
	}

	res, err = svc.ToggleCompletion(ctx, "sleep", false)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if res.Rating.Completed || res.Stars != 0 {
		t.Fatalf("after uncompleting: completed=%v stars=%d, want false/0", res.Rating.Completed, res.Stars)
	}
}

func TestToggleCompletionNeverDrivesStarsNegative(t *testing.T) {
	svc, user, _, seedRating := newBabyStepsFixture(t)
	// Completed rating but zero stars, as after a server-side reset.
	seedRating("mood", "Call a friend", true)
	ctx := authedCtx(user.ID)

	res, err := svc.ToggleCompletion(ctx, "mood", false)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if res.Stars != 0 {
		t.Fatalf("stars went to %d, want floor at 0", res.Stars)
	}
}

func TestToggleCompletionUnknownMetric(t *testing.T) {
	svc, user, _, seedRating := newBabyStepsFixture(t)
	seedRating("sleep", "Go to bed before midnight", false)

	_, err := svc.ToggleCompletion(authedCtx(user.ID), "nutrition", true)
	if !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestToggleCompletionNoEntries(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	user := seedUser(t, db)
	svc := NewBabyStepsService(
		db,
		log,
		repos.NewDailyEntryRepo(db, log),
		repos.NewMetricRatingRepo(db, log),
		repos.NewUserRepo(db, log),
		nil,
	)

	_, err := svc.ToggleCompletion(authedCtx(user.ID), "sleep", true)
	if !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestUpdateBabyStepText(t *testing.T) {
	svc, user, entry, seedRating := newBabyStepsFixture(t)
	seeded := seedRating("sleep", "Go to bed before midnight", false)
	ctx := authedCtx(user.ID)

	updated, err := svc.UpdateBabyStepText(ctx, "sleep", "No screens after 10pm")
	if err != nil {
		t.Fatalf("update text: %v", err)
	}
	if updated.ID != seeded.ID || updated.BabyStep != "No screens after 10pm" {
		t.Fatalf("unexpected updated rating: %+v", updated)
	}

	groups, err := svc.Ledger(ctx)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(groups) != 1 || groups[0].Text != "No screens after 10pm" {
		t.Fatalf("ledger should reflect new text, got %+v", groups)
	}
	if groups[0].Representative.EntryID != entry.ID {
		t.Fatalf("representative should come from the seeded entry")
	}
}
