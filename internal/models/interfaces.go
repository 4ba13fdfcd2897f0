package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Catalog. GetItem returns (nil, nil) when the item does not exist.
	CreateSet(ctx context.Context, set *VocabularySet) error
	CreateItem(ctx context.Context, item *LearningItem) error
	GetItem(ctx context.Context, itemID int64) (*LearningItem, error)
	GetSetItems(ctx context.Context, setID int64) ([]*LearningItem, error)
	CountSetItems(ctx context.Context, setID int64) (int, error)
	GetAllSetIDs(ctx context.Context) ([]int64, error)

	// Review records. GetRecord returns (nil, nil) when no record exists yet.
	// GetRecordForUpdate must be called inside RunInTx; it takes a row lock so
	// concurrent submissions for the same (user, item) pair serialize.
	GetRecord(ctx context.Context, userID, itemID int64) (*ReviewRecord, error)
	GetRecordForUpdate(ctx context.Context, userID, itemID int64) (*ReviewRecord, error)
	EnsureRecord(ctx context.Context, userID, itemID int64) error
	UpdateRecord(ctx context.Context, rec *ReviewRecord) error
	GetSetRecords(ctx context.Context, userID, setID int64) ([]*ReviewRecord, error)

	// Review events and activity.
	AddReviewEvent(ctx context.Context, ev *ReviewEvent) error
	GetActivityByDay(ctx context.Context, userID int64, from, to time.Time) ([]*ActivityLogEntry, error)
	GetRecentReviewDays(ctx context.Context, userID int64, since time.Time) ([]time.Time, error)
	CountReviewsSince(ctx context.Context, userID int64, since time.Time) (int, error)
	GetUserIDsWithRecords(ctx context.Context) ([]int64, error)

	// Learning sessions.
	CreateSession(ctx context.Context, session *LearningSession) error
	GetSession(ctx context.Context, sessionID uuid.UUID) (*LearningSession, error)
	FinishSession(ctx context.Context, sessionID uuid.UUID, answered, correct int, completedAt time.Time) error

	RunInTx(ctx context.Context, fn func(Repository) error) error
}

type Service interface {
	CreateSet(ctx context.Context, title, description string, items []*LearningItem, now time.Time) (*VocabularySet, error)
	SubmitReview(ctx context.Context, userID, itemID int64, isCorrect bool, now time.Time) (*ReviewRecord, error)
	SetProgress(ctx context.Context, userID, setID int64, now time.Time) (*SetProgress, error)
	ActivityLog(ctx context.Context, userID int64, from, to time.Time) ([]*ActivityLogEntry, error)
	NextBatch(ctx context.Context, userID, setID int64, now time.Time, batchSize int) ([]int64, error)
	Snapshot(ctx context.Context, userID int64, setID *int64, now time.Time) (*StatsSnapshot, error)
	ListItemsByCategory(ctx context.Context, userID, setID int64, category string, now time.Time, page, pageSize int) (*ItemPage, error)
	StartSession(ctx context.Context, userID, setID int64, now time.Time, batchSize int) (*LearningSession, []*LearningItem, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID, answered, correct int, now time.Time) (*LearningSession, error)
}
