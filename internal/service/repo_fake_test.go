package service

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/flashvault/flashvault/internal/models"
	"github.com/flashvault/flashvault/pkg/utils"
)

type recordKey struct {
	userID int64
	itemID int64
}

// fakeRepo is an in-memory Repository for service tests. Single goroutine use
// only; RunInTx runs the callback against the same store with no isolation.
type fakeRepo struct {
	items    map[int64]*models.LearningItem
	records  map[recordKey]*models.ReviewRecord
	events   []*models.ReviewEvent
	sessions map[uuid.UUID]*models.LearningSession

	nextSetID  int64
	nextItemID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:    make(map[int64]*models.LearningItem),
		records:  make(map[recordKey]*models.ReviewRecord),
		sessions: make(map[uuid.UUID]*models.LearningSession),
	}
}

func (f *fakeRepo) addItem(item models.LearningItem) {
	f.items[item.ItemID] = &item
}

func (f *fakeRepo) putRecord(rec models.ReviewRecord) {
	f.records[recordKey{rec.UserID, rec.ItemID}] = &rec
}

func (f *fakeRepo) CreateSet(_ context.Context, set *models.VocabularySet) error {
	f.nextSetID++
	set.SetID = f.nextSetID
	return nil
}

func (f *fakeRepo) CreateItem(_ context.Context, item *models.LearningItem) error {
	f.nextItemID++
	item.ItemID = f.nextItemID
	copied := *item
	f.items[item.ItemID] = &copied
	return nil
}

func (f *fakeRepo) GetItem(_ context.Context, itemID int64) (*models.LearningItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (f *fakeRepo) GetSetItems(_ context.Context, setID int64) ([]*models.LearningItem, error) {
	var out []*models.LearningItem
	for _, item := range f.items {
		if item.SetID == setID {
			copied := *item
			out = append(out, &copied)
		}
	}
	slices.SortFunc(out, func(a, b *models.LearningItem) int {
		if a.Position != b.Position {
			return int(a.Position - b.Position)
		}
		return int(a.ItemID - b.ItemID)
	})
	return out, nil
}

func (f *fakeRepo) CountSetItems(ctx context.Context, setID int64) (int, error) {
	items, _ := f.GetSetItems(ctx, setID)
	return len(items), nil
}

func (f *fakeRepo) GetAllSetIDs(_ context.Context) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, item := range f.items {
		if !seen[item.SetID] {
			seen[item.SetID] = true
			ids = append(ids, item.SetID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (f *fakeRepo) GetRecord(_ context.Context, userID, itemID int64) (*models.ReviewRecord, error) {
	rec, ok := f.records[recordKey{userID, itemID}]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeRepo) GetRecordForUpdate(ctx context.Context, userID, itemID int64) (*models.ReviewRecord, error) {
	return f.GetRecord(ctx, userID, itemID)
}

func (f *fakeRepo) EnsureRecord(_ context.Context, userID, itemID int64) error {
	key := recordKey{userID, itemID}
	if _, ok := f.records[key]; !ok {
		f.records[key] = &models.ReviewRecord{
			UserID:     userID,
			ItemID:     itemID,
			State:      models.StateUnseen,
			EaseFactor: 2.5,
		}
	}
	return nil
}

func (f *fakeRepo) UpdateRecord(_ context.Context, rec *models.ReviewRecord) error {
	copied := *rec
	f.records[recordKey{rec.UserID, rec.ItemID}] = &copied
	return nil
}

func (f *fakeRepo) GetSetRecords(_ context.Context, userID, setID int64) ([]*models.ReviewRecord, error) {
	var out []*models.ReviewRecord
	for key, rec := range f.records {
		if key.userID != userID {
			continue
		}
		item, ok := f.items[key.itemID]
		if !ok || item.SetID != setID {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepo) AddReviewEvent(_ context.Context, ev *models.ReviewEvent) error {
	copied := *ev
	copied.EventID = int64(len(f.events) + 1)
	f.events = append(f.events, &copied)
	return nil
}

func (f *fakeRepo) GetActivityByDay(_ context.Context, userID int64, from, to time.Time) ([]*models.ActivityLogEntry, error) {
	byDay := make(map[time.Time]*models.ActivityLogEntry)
	for _, ev := range f.events {
		if ev.UserID != userID || ev.ReviewedAt.Before(from) || !ev.ReviewedAt.Before(to) {
			continue
		}
		day := utils.StartOfDayUTC(ev.ReviewedAt)
		entry, ok := byDay[day]
		if !ok {
			entry = &models.ActivityLogEntry{Day: day}
			byDay[day] = entry
		}
		entry.ReviewCount++
		if ev.WasNew {
			entry.NewItemsCount++
		}
		if ev.IsCorrect {
			entry.CorrectCount++
		}
	}

	var out []*models.ActivityLogEntry
	for _, entry := range byDay {
		out = append(out, entry)
	}
	slices.SortFunc(out, func(a, b *models.ActivityLogEntry) int {
		return a.Day.Compare(b.Day)
	})
	return out, nil
}

func (f *fakeRepo) GetRecentReviewDays(_ context.Context, userID int64, since time.Time) ([]time.Time, error) {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, ev := range f.events {
		if ev.UserID != userID || ev.ReviewedAt.Before(since) {
			continue
		}
		day := utils.StartOfDayUTC(ev.ReviewedAt)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })
	return days, nil
}

func (f *fakeRepo) CountReviewsSince(_ context.Context, userID int64, since time.Time) (int, error) {
	count := 0
	for _, ev := range f.events {
		if ev.UserID == userID && !ev.ReviewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) GetUserIDsWithRecords(_ context.Context) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for key := range f.records {
		if !seen[key.userID] {
			seen[key.userID] = true
			ids = append(ids, key.userID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (f *fakeRepo) CreateSession(_ context.Context, session *models.LearningSession) error {
	copied := *session
	f.sessions[session.SessionID] = &copied
	return nil
}

func (f *fakeRepo) GetSession(_ context.Context, sessionID uuid.UUID) (*models.LearningSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeRepo) FinishSession(_ context.Context, sessionID uuid.UUID, answered, correct int, completedAt time.Time) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil
	}
	session.AnsweredCount = answered
	session.CorrectCount = correct
	session.CompletedAt = &completedAt
	return nil
}

func (f *fakeRepo) RunInTx(_ context.Context, fn func(models.Repository) error) error {
	return fn(f)
}
