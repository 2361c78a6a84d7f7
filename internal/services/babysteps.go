package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/requestdata"
	"github.com/wellnest-app/wellnest-backend/internal/sse"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

// ErrStepNotFound is returned when a toggle references a rating row that no
// longer exists (stale client state). Handlers surface it as a retryable
// not-found, never a server fault.
var ErrStepNotFound = errors.New("baby step not found")

// recentWindow keeps just-completed steps visible in the day-to-day tracker
// for a little positive reinforcement before they drop off.
const recentWindow = 7 * 24 * time.Hour

// BabyStepGroup is one logical improvement note. The same (metric, text)
// pair recurring across days is one step with a completion history, not many
// distinct steps.
type BabyStepGroup struct {
	MetricID       string              `json:"metric_id"`
	Text           string              `json:"text"`
	Representative *types.MetricRating `json:"representative"`
	CompletedCount int                 `json:"completed_count"`
	Occurrences    int                 `json:"occurrences"`
}

// ToggleResult reports the rating after a completion toggle plus the user's
// stars balance as persisted in the same transaction.
type ToggleResult struct {
	Rating *types.MetricRating `json:"rating"`
	Stars  int                 `json:"stars"`
}

type BabyStepsService interface {
	Ledger(ctx context.Context) ([]BabyStepGroup, error)
	ActiveSteps(ctx context.Context) ([]BabyStepGroup, error)
	ToggleCompletion(ctx context.Context, metricID string, completed bool) (*ToggleResult, error)
	UpdateBabyStepText(ctx context.Context, metricID, text string) (*types.MetricRating, error)
}

type babyStepsService struct {
	db         *gorm.DB
	log        *logger.Logger
	entryRepo  repos.DailyEntryRepo
	ratingRepo repos.MetricRatingRepo
	userRepo   repos.UserRepo
	notifier   Notifier
}

func NewBabyStepsService(
	db *gorm.DB,
	log *logger.Logger,
	entryRepo repos.DailyEntryRepo,
	ratingRepo repos.MetricRatingRepo,
	userRepo repos.UserRepo,
	notifier Notifier,
) BabyStepsService {
	serviceLog := log.With("service", "BabyStepsService")
	return &babyStepsService{
		db:         db,
		log:        serviceLog,
		entryRepo:  entryRepo,
		ratingRepo: ratingRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

type stepKey struct {
	metricID string
	text     string
}

// deriveBabyStepGroups flattens the rating history into logical steps.
// Ratings must be ordered newest-first by entry date; the first instance seen
// for a key is therefore its representative.
func deriveBabyStepGroups(ratings []*types.MetricRating) []BabyStepGroup {
	groups := make(map[stepKey]*BabyStepGroup)
	order := make([]stepKey, 0)

	for _, r := range ratings {
		if r.BabyStep == "" {
			continue
		}
		key := stepKey{metricID: r.MetricID, text: r.BabyStep}
		g, ok := groups[key]
		if !ok {
			g = &BabyStepGroup{
				MetricID:       r.MetricID,
				Text:           r.BabyStep,
				Representative: r,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Occurrences++
		if r.Completed {
			g.CompletedCount++
		}
	}

	out := make([]BabyStepGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Representative.EntryDate > out[j].Representative.EntryDate
	})
	return out
}

// isActiveStep keeps a step in the tracker when it still needs doing, or when
// it was completed recently enough to stay visible.
func isActiveStep(g BabyStepGroup, now time.Time) bool {
	if !g.Representative.Completed {
		return true
	}
	repDate, err := time.Parse("2006-01-02", g.Representative.EntryDate)
	if err != nil {
		return false
	}
	return now.UTC().Sub(repDate) <= recentWindow
}

func (bs *babyStepsService) Ledger(ctx context.Context) ([]BabyStepGroup, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	ratings, err := bs.ratingRepo.ListByUser(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	return deriveBabyStepGroups(ratings), nil
}

func (bs *babyStepsService) ActiveSteps(ctx context.Context) ([]BabyStepGroup, error) {
	groups, err := bs.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]BabyStepGroup, 0, len(groups))
	for _, g := range groups {
		if isActiveStep(g, now) {
			out = append(out, g)
		}
	}
	return out, nil
}

// currentRating locates the rating for a metric on the user's most recent
// entry, which is the only instance a toggle may mutate.
func (bs *babyStepsService) currentRating(ctx context.Context, tx *gorm.DB, userID uuid.UUID, metricID string) (*types.MetricRating, error) {
	entries, err := bs.entryRepo.ListByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrStepNotFound
	}
	rating, err := bs.ratingRepo.GetByEntryAndMetric(ctx, tx, entries[0].ID, metricID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}
	if rating == nil {
		return nil, ErrStepNotFound
	}
	return rating, nil
}

func (bs *babyStepsService) ToggleCompletion(ctx context.Context, metricID string, completed bool) (*ToggleResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	var out ToggleResult
	var celebrated bool
	if err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating, err := bs.currentRating(ctx, tx, rd.UserID, metricID)
		if err != nil {
			return err
		}

		if rating.Completed == completed {
			// Nothing to change; report current state without touching stars.
			out.Rating = rating
		} else {
			if err := bs.ratingRepo.UpdateCompletion(ctx, tx, rating.ID, completed); err != nil {
				return fmt.Errorf("failed to update completion: %w", err)
			}
			delta := -1
			if completed {
				delta = 1
				celebrated = true
			}
			if err := bs.userRepo.AdjustStars(ctx, tx, rd.UserID, delta); err != nil {
				return fmt.Errorf("failed to adjust stars: %w", err)
			}
			rating.Completed = completed
			out.Rating = rating
		}

		users, err := bs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil || len(users) == 0 {
			return fmt.Errorf("failed to reload user")
		}
		out.Stars = users[0].Stars
		return nil
	}); err != nil {
		return nil, err
	}

	// Celebration fires only on the completing transition.
	if celebrated && bs.notifier != nil {
		bs.notifier.Emit(ctx, sse.SSEMessage{
			Channel: sse.UserChannel(rd.UserID),
			Event:   sse.SSEEventBabyStepCompleted,
			Data: map[string]any{
				"metric_id": metricID,
				"baby_step": out.Rating.BabyStep,
				"stars":     out.Stars,
			},
		})
	}

	return &out, nil
}

func (bs *babyStepsService) UpdateBabyStepText(ctx context.Context, metricID, text string) (*types.MetricRating, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	var out *types.MetricRating
	if err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating, err := bs.currentRating(ctx, tx, rd.UserID, metricID)
		if err != nil {
			return err
		}
		if err := bs.ratingRepo.UpdateBabyStepText(ctx, tx, rating.ID, text); err != nil {
			return fmt.Errorf("failed to update baby step text: %w", err)
		}
		rating.BabyStep = text
		out = rating
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
