package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemType distinguishes the two kinds of learning items.
type ItemType string

const (
	ItemFlashcard    ItemType = "flashcard"
	ItemQuizQuestion ItemType = "quiz_question"
)

// VocabularySet groups learning items.
type VocabularySet struct {
	SetID       int64     `db:"set_id" json:"set_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LearningItem is one flashcard or quiz question inside a set. Position is
// the stable creation order used when serving unseen items.
type LearningItem struct {
	ItemID     int64    `db:"item_id" json:"item_id"`
	SetID      int64    `db:"set_id" json:"set_id"`
	ItemType   ItemType `db:"item_type" json:"item_type"`
	Front      string   `db:"front" json:"front"`
	Back       string   `db:"back" json:"back"`
	OptionA    *string  `db:"option_a" json:"option_a,omitempty"`
	OptionB    *string  `db:"option_b" json:"option_b,omitempty"`
	OptionC    *string  `db:"option_c" json:"option_c,omitempty"`
	OptionD    *string  `db:"option_d" json:"option_d,omitempty"`
	CorrectOpt *string  `db:"correct_option" json:"correct_option,omitempty"`
	PassageRef *string  `db:"passage_ref" json:"passage_ref,omitempty"`
	Position   int      `db:"position" json:"position"`
}

// ReviewRecord holds the scheduling state for one (user, item) pair.
// Interval is persisted as nanoseconds in interval_ns.
type ReviewRecord struct {
	UserID         int64         `db:"user_id" json:"user_id"`
	ItemID         int64         `db:"item_id" json:"item_id"`
	State          ReviewState   `db:"state" json:"state"`
	LastReviewedAt *time.Time    `db:"last_reviewed_at" json:"last_reviewed_at"`
	NextDueAt      *time.Time    `db:"next_due_at" json:"next_due_at"`
	ReviewCount    int           `db:"review_count" json:"review_count"`
	CorrectCount   int           `db:"correct_count" json:"correct_count"`
	IncorrectCount int           `db:"incorrect_count" json:"incorrect_count"`
	LapseCount     int           `db:"lapse_count" json:"lapse_count"`
	CorrectStreak  int           `db:"correct_streak" json:"correct_streak"`
	Interval       time.Duration `db:"interval_ns" json:"interval_ns"`
	EaseFactor     float64       `db:"ease_factor" json:"ease_factor"`
}

// Due reports whether the record's next review time has passed. Unseen
// records are never due.
func (r ReviewRecord) Due(now time.Time) bool {
	return r.State != StateUnseen && r.NextDueAt != nil && !r.NextDueAt.After(now)
}

// DueSoon reports whether the record falls due within the lookahead window:
// now < next_due_at <= now+window.
func (r ReviewRecord) DueSoon(now time.Time, window time.Duration) bool {
	if r.State == StateUnseen || r.NextDueAt == nil {
		return false
	}
	return r.NextDueAt.After(now) && !r.NextDueAt.After(now.Add(window))
}

// Overdue returns how far past due the record is; zero if not due.
func (r ReviewRecord) Overdue(now time.Time) time.Duration {
	if !r.Due(now) {
		return 0
	}
	return now.Sub(*r.NextDueAt)
}

// ReviewEvent is one persisted review attempt, the source of the activity
// log. WasNew marks the first exposure of the item.
type ReviewEvent struct {
	EventID    int64     `db:"event_id" json:"event_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ItemID     int64     `db:"item_id" json:"item_id"`
	SetID      int64     `db:"set_id" json:"set_id"`
	IsCorrect  bool      `db:"is_correct" json:"is_correct"`
	WasNew     bool      `db:"was_new" json:"was_new"`
	ReviewedAt time.Time `db:"reviewed_at" json:"reviewed_at"`
}

// SetProgress is the derived per-(user, set) rollup. Every item lands in
// exactly one state bucket; due and due-soon counts are orthogonal flags.
type SetProgress struct {
	SetID          int64   `json:"set_id"`
	TotalItems     int     `json:"total_items"`
	UnseenCount    int     `json:"unseen_items"`
	LearningCount  int     `json:"learning_items"`
	ReviewingCount int     `json:"reviewing_items"`
	MasteredCount  int     `json:"mastered_items"`
	LapsedCount    int     `json:"lapsed_items"`
	DueCount       int     `json:"due_items"`
	DueSoonCount   int     `json:"due_soon_items"`
	Accuracy       float64 `json:"accuracy"`
}

// ActivityLogEntry is the per-day rollup behind the heatmap and activity
// charts. Days are bucketed by UTC calendar date.
type ActivityLogEntry struct {
	Day           time.Time `db:"day" json:"date"`
	ReviewCount   int       `db:"review_count" json:"review_count"`
	NewItemsCount int       `db:"new_items_count" json:"new_items_count"`
	CorrectCount  int       `db:"correct_count" json:"correct_count"`
}

// StatsSnapshot is the dashboard projection for one set, or across all sets
// when SetID is nil. Computed against a single caller-supplied "now".
type StatsSnapshot struct {
	SetID          *int64  `json:"set_id,omitempty"`
	TotalItems     int     `json:"total_items"`
	LearnedItems   int     `json:"learned_items"`
	UnseenItems    int     `json:"unseen_items"`
	LearningItems  int     `json:"learning_items"`
	ReviewingItems int     `json:"reviewing_items"`
	MasteredItems  int     `json:"mastered_items"`
	LapsedItems    int     `json:"lapsed_items"`
	DueItems       int     `json:"due_items"`
	DueSoonItems   int     `json:"due_soon_items"`
	Accuracy       float64 `json:"accuracy"`
	DailyStreak    int     `json:"daily_streak"`
	ReviewsToday   int     `json:"reviews_today"`
}

// LearningSession is one sitting: a batch of items snapshotted at start and
// counters filled in on completion. ItemOrder is a comma-separated item ID
// list preserving presentation order.
type LearningSession struct {
	SessionID     uuid.UUID  `db:"session_id" json:"session_id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	SetID         int64      `db:"set_id" json:"set_id"`
	ItemOrder     string     `db:"item_order" json:"item_order"`
	TotalItems    int        `db:"total_items" json:"total_items"`
	AnsweredCount int        `db:"answered_count" json:"answered_count"`
	CorrectCount  int        `db:"correct_count" json:"correct_count"`
	StartedAt     time.Time  `db:"started_at" json:"started_at"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at"`
}

// ItemPage is one page of a per-category item listing.
type ItemPage struct {
	Items   []*LearningItem `json:"items"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
	HasNext bool            `json:"has_next"`
	HasPrev bool            `json:"has_prev"`
}
