package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flashvault/flashvault/internal/models"
	"github.com/flashvault/flashvault/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// MaxActivitySpan bounds activity log queries to two years.
const MaxActivitySpan = 730 * 24 * time.Hour

// fetchSetState loads a set's catalog and the user's records for it
// concurrently. Records are keyed by item ID; items with no record yet are
// simply absent from the map.
func (s *Service) fetchSetState(ctx context.Context, userID, setID int64) ([]*models.LearningItem, map[int64]*models.ReviewRecord, error) {
	var (
		items   []*models.LearningItem
		records []*models.ReviewRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.GetSetItems(gctx, setID)
		if err != nil {
			return fmt.Errorf("get set items (set_id: %d): %w", setID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.repo.GetSetRecords(gctx, userID, setID)
		if err != nil {
			return fmt.Errorf("get set records (user_id: %d, set_id: %d): %w", userID, setID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	recByItem := make(map[int64]*models.ReviewRecord, len(records))
	for _, rec := range records {
		recByItem[rec.ItemID] = rec
	}
	return items, recByItem, nil
}

type setTotals struct {
	progress models.SetProgress
	correct  int
	reviews  int
}

// computeSet folds a set's items into state buckets. Pure over the fetched
// snapshot: running it twice with no intervening writes yields identical
// output.
func (s *Service) computeSet(ctx context.Context, userID, setID int64, now time.Time) (*setTotals, error) {
	items, recByItem, err := s.fetchSetState(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	t := &setTotals{progress: models.SetProgress{SetID: setID, TotalItems: len(items)}}
	p := &t.progress
	for _, item := range items {
		rec, ok := recByItem[item.ItemID]
		if !ok {
			p.UnseenCount++
			continue
		}

		switch rec.State {
		case models.StateUnseen:
			p.UnseenCount++
		case models.StateLearning:
			p.LearningCount++
		case models.StateReviewing:
			p.ReviewingCount++
		case models.StateMastered:
			p.MasteredCount++
		case models.StateLapsed:
			p.LapsedCount++
		}

		if rec.Due(now) {
			p.DueCount++
		} else if rec.DueSoon(now, s.cfg.DueSoonWindow) {
			p.DueSoonCount++
		}

		t.correct += rec.CorrectCount
		t.reviews += rec.ReviewCount
	}

	if t.reviews > 0 {
		p.Accuracy = float64(t.correct) / float64(t.reviews)
	}
	return t, nil
}

// SetProgress rolls up one set's records into per-state counts and due flags.
func (s *Service) SetProgress(ctx context.Context, userID, setID int64, now time.Time) (*models.SetProgress, error) {
	t, err := s.computeSet(ctx, userID, setID, now)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "compute set progress", Err: err}
	}
	return &t.progress, nil
}

// ActivityLog returns one entry per UTC calendar day in [from, to], zero
// filled so chart consumers get a dense series.
func (s *Service) ActivityLog(ctx context.Context, userID int64, from, to time.Time) ([]*models.ActivityLogEntry, error) {
	from = utils.StartOfDayUTC(from)
	to = utils.StartOfDayUTC(to)
	if to.Before(from) {
		return nil, fmt.Errorf("invalid activity range: from %s is after to %s",
			from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	if to.Sub(from) > MaxActivitySpan {
		return nil, &RangeTooLargeError{From: from, To: to, MaxSpan: MaxActivitySpan}
	}

	rows, err := s.repo.GetActivityByDay(ctx, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, &StoreUnavailableError{Op: "get activity", Err: err}
	}

	byDay := make(map[time.Time]*models.ActivityLogEntry, len(rows))
	for _, row := range rows {
		byDay[utils.StartOfDayUTC(row.Day)] = row
	}

	var entries []*models.ActivityLogEntry
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if row, ok := byDay[day]; ok {
			entries = append(entries, &models.ActivityLogEntry{
				Day:           day,
				ReviewCount:   row.ReviewCount,
				NewItemsCount: row.NewItemsCount,
				CorrectCount:  row.CorrectCount,
			})
			continue
		}
		entries = append(entries, &models.ActivityLogEntry{Day: day})
	}
	return entries, nil
}

// Snapshot combines progress counts, accuracy, the daily review streak and
// today's review count for one set, or across every set when setID is nil.
func (s *Service) Snapshot(ctx context.Context, userID int64, setID *int64, now time.Time) (*models.StatsSnapshot, error) {
	snap := &models.StatsSnapshot{SetID: setID}

	var setIDs []int64
	if setID != nil {
		setIDs = []int64{*setID}
	} else {
		ids, err := s.repo.GetAllSetIDs(ctx)
		if err != nil {
			return nil, &StoreUnavailableError{Op: "list sets", Err: err}
		}
		setIDs = ids
	}

	var correct, reviews int
	for _, id := range setIDs {
		t, err := s.computeSet(ctx, userID, id, now)
		if err != nil {
			return nil, &StoreUnavailableError{Op: "compute set progress", Err: err}
		}
		p := t.progress
		snap.TotalItems += p.TotalItems
		snap.UnseenItems += p.UnseenCount
		snap.LearningItems += p.LearningCount
		snap.ReviewingItems += p.ReviewingCount
		snap.MasteredItems += p.MasteredCount
		snap.LapsedItems += p.LapsedCount
		snap.DueItems += p.DueCount
		snap.DueSoonItems += p.DueSoonCount
		correct += t.correct
		reviews += t.reviews
	}
	snap.LearnedItems = snap.TotalItems - snap.UnseenItems
	if reviews > 0 {
		snap.Accuracy = float64(correct) / float64(reviews)
	}

	streak, err := s.dailyStreak(ctx, userID, now)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "compute daily streak", Err: err}
	}
	snap.DailyStreak = streak

	today, err := s.repo.CountReviewsSince(ctx, userID, utils.StartOfDayUTC(now))
	if err != nil {
		return nil, &StoreUnavailableError{Op: "count reviews today", Err: err}
	}
	snap.ReviewsToday = today

	return snap, nil
}

// dailyStreak counts consecutive UTC days with at least one review, ending
// today or yesterday (an unfinished today does not break the streak).
func (s *Service) dailyStreak(ctx context.Context, userID int64, now time.Time) (int, error) {
	days, err := s.repo.GetRecentReviewDays(ctx, userID, now.AddDate(-1, 0, 0))
	if err != nil {
		return 0, fmt.Errorf("get recent review days (user_id: %d): %w", userID, err)
	}
	if len(days) == 0 {
		return 0, nil
	}

	today := utils.StartOfDayUTC(now)
	expect := today
	if !utils.DatesEqualUTC(days[0], today) {
		expect = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, day := range days {
		if !utils.DatesEqualUTC(day, expect) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}
	return streak, nil
}

// ListItemsByCategory pages through a set's items filtered by state bucket
// ("unseen", "learning", "reviewing", "mastered", "lapsed") or by the due
// flags ("due", "due_soon").
func (s *Service) ListItemsByCategory(ctx context.Context, userID, setID int64, category string, now time.Time, page, pageSize int) (*models.ItemPage, error) {
	switch category {
	case "unseen", "learning", "reviewing", "mastered", "lapsed", "due", "due_soon":
	default:
		return nil, fmt.Errorf("unknown item category: %q", category)
	}

	items, recByItem, err := s.fetchSetState(ctx, userID, setID)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list items", Err: err}
	}

	var filtered []*models.LearningItem
	for _, item := range items {
		rec := recByItem[item.ItemID]
		if matchesCategory(rec, category, now, s.cfg.DueSoonWindow) {
			filtered = append(filtered, item)
		}
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}
	pages := (len(filtered) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &models.ItemPage{
		Items:   filtered[start:end],
		Page:    page,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}, nil
}

func matchesCategory(rec *models.ReviewRecord, category string, now time.Time, window time.Duration) bool {
	state := models.StateUnseen
	if rec != nil {
		state = rec.State
	}

	switch category {
	case "unseen":
		return state == models.StateUnseen
	case "learning":
		return state == models.StateLearning
	case "reviewing":
		return state == models.StateReviewing
	case "mastered":
		return state == models.StateMastered
	case "lapsed":
		return state == models.StateLapsed
	case "due":
		return rec != nil && rec.Due(now)
	case "due_soon":
		return rec != nil && rec.DueSoon(now, window)
	default:
		return false
	}
}
