package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/catalog"
	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/requestdata"
	"github.com/wellnest-app/wellnest-backend/internal/sse"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

// EntryWithRatings is one day of history hydrated for the client.
type EntryWithRatings struct {
	Entry   *types.DailyEntry     `json:"entry"`
	Ratings []*types.MetricRating `json:"ratings"`
}

// History is the full read-model for the trends screens. Demo is true when
// the entries are the synthetic first-run dataset, which never touches
// storage.
type History struct {
	Entries []EntryWithRatings `json:"entries"`
	Demo    bool               `json:"demo"`
}

type WellnessService interface {
	SubmitDay(ctx context.Context, ratings []RatingInput) (*EntryWithRatings, error)
	LoadHistory(ctx context.Context) (*History, error)
}

type wellnessService struct {
	db         *gorm.DB
	log        *logger.Logger
	cat        *catalog.Catalog
	entryRepo  repos.DailyEntryRepo
	ratingRepo repos.MetricRatingRepo
	notifier   Notifier
}

func NewWellnessService(
	db *gorm.DB,
	log *logger.Logger,
	cat *catalog.Catalog,
	entryRepo repos.DailyEntryRepo,
	ratingRepo repos.MetricRatingRepo,
	notifier Notifier,
) WellnessService {
	serviceLog := log.With("service", "WellnessService")
	return &wellnessService{
		db:         db,
		log:        serviceLog,
		cat:        cat,
		entryRepo:  entryRepo,
		ratingRepo: ratingRepo,
		notifier:   notifier,
	}
}

// entryDateUTC is the calendar-day key for submissions. The day boundary is
// UTC; the unique index on (user_id, entry_date) makes the same-day
// resubmission path an update even under concurrent submits.
func entryDateUTC(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

func (ws *wellnessService) SubmitDay(ctx context.Context, ratings []RatingInput) (*EntryWithRatings, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	for i := range ratings {
		ratings[i].Score = RoundScore(ratings[i].Score)
	}
	overall, err := AggregateScore(ws.cat, ratings)
	if err != nil {
		return nil, err
	}
	// The category comes from the exact mean. Rounding first would lift a
	// mean sitting just under a threshold into the band above it.
	category := CategorizeScore(overall)
	// A mean of one-decimal scores has at most two decimals; this only
	// strips float noise before the value is stored.
	overall = math.Round(overall*100) / 100
	date := entryDateUTC(time.Now())

	var out EntryWithRatings
	if err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := ws.entryRepo.GetByUserAndDate(ctx, tx, rd.UserID, date)
		if err != nil {
			return fmt.Errorf("failed to look up today's entry: %w", err)
		}
		if entry != nil {
			// Resubmission replaces: score fields plus the full rating set,
			// inside this one transaction.
			if err := ws.entryRepo.UpdateScore(ctx, tx, entry.ID, overall, category); err != nil {
				return fmt.Errorf("failed to update entry score: %w", err)
			}
			if err := ws.ratingRepo.DeleteByEntryID(ctx, tx, entry.ID); err != nil {
				return fmt.Errorf("failed to clear prior ratings: %w", err)
			}
			entry.OverallScore = overall
			entry.Category = category
		} else {
			entry = &types.DailyEntry{
				ID:           uuid.New(),
				UserID:       rd.UserID,
				EntryDate:    date,
				OverallScore: overall,
				Category:     category,
			}
			if _, err := ws.entryRepo.Create(ctx, tx, []*types.DailyEntry{entry}); err != nil {
				return fmt.Errorf("failed to create entry: %w", err)
			}
		}

		rows := make([]*types.MetricRating, 0, len(ratings))
		for _, r := range ratings {
			rows = append(rows, &types.MetricRating{
				ID:        uuid.New(),
				EntryID:   entry.ID,
				UserID:    rd.UserID,
				MetricID:  r.MetricID,
				Score:     r.Score,
				BabyStep:  r.BabyStep,
				Completed: false,
				EntryDate: date,
			})
		}
		created, err := ws.ratingRepo.CreateBatch(ctx, tx, rows)
		if err != nil {
			return fmt.Errorf("failed to create ratings: %w", err)
		}

		out = EntryWithRatings{Entry: entry, Ratings: created}
		return nil
	}); err != nil {
		return nil, err
	}

	if ws.notifier != nil {
		ws.notifier.Emit(ctx, sse.SSEMessage{
			Channel: sse.UserChannel(rd.UserID),
			Event:   sse.SSEEventWellnessEntrySubmitted,
			Data: map[string]any{
				"entry_date":    date,
				"overall_score": overall,
				"category":      category,
			},
		})
	}

	return &out, nil
}

func (ws *wellnessService) LoadHistory(ctx context.Context) (*History, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	var entries []*types.DailyEntry
	var ratings []*types.MetricRating

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = ws.entryRepo.ListByUser(gctx, nil, rd.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		ratings, err = ws.ratingRepo.ListByUser(gctx, nil, rd.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		return &History{Entries: demoHistory(rd.UserID, time.Now()), Demo: true}, nil
	}

	byEntry := make(map[uuid.UUID][]*types.MetricRating, len(entries))
	for _, r := range ratings {
		byEntry[r.EntryID] = append(byEntry[r.EntryID], r)
	}

	out := make([]EntryWithRatings, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryWithRatings{Entry: e, Ratings: byEntry[e.ID]})
	}
	return &History{Entries: out}, nil
}
