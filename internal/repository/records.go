package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flashvault/flashvault/internal/models"
)

const recordColumns = `user_id, item_id, state, last_reviewed_at, next_due_at,
		review_count, correct_count, incorrect_count, lapse_count, correct_streak,
		interval_ns, ease_factor`

func (r *Postgres) GetRecord(ctx context.Context, userID, itemID int64) (*models.ReviewRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM review_records
		WHERE user_id = $1 AND item_id = $2
	`

	var rec models.ReviewRecord
	err := r.GetContext(ctx, &rec, query, userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record (user_id: %d, item_id: %d): %w", userID, itemID, err)
	}

	return &rec, nil
}

// GetRecordForUpdate reads the record with a row lock. Must run inside
// RunInTx; the lock holds until commit or rollback, serializing concurrent
// submissions for the same (user, item) pair.
func (r *Postgres) GetRecordForUpdate(ctx context.Context, userID, itemID int64) (*models.ReviewRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM review_records
		WHERE user_id = $1 AND item_id = $2
		FOR UPDATE
	`

	var rec models.ReviewRecord
	err := r.GetContext(ctx, &rec, query, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("lock record (user_id: %d, item_id: %d): %w", userID, itemID, err)
	}

	return &rec, nil
}

// EnsureRecord creates the unseen row for a pair if it does not exist yet.
// ON CONFLICT DO NOTHING makes concurrent first exposures race-free: exactly
// one row survives and both submitters then lock it.
func (r *Postgres) EnsureRecord(ctx context.Context, userID, itemID int64) error {
	query := r.psql.Insert("review_records").
		Columns("user_id", "item_id", "state", "review_count", "correct_count",
			"incorrect_count", "lapse_count", "correct_streak", "interval_ns", "ease_factor").
		Values(userID, itemID, models.StateUnseen, 0, 0, 0, 0, 0, 0, 0).
		Suffix("ON CONFLICT (user_id, item_id) DO NOTHING")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (user_id: %d, item_id: %d): %w", userID, itemID, err)
	}

	_, err = r.ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ensure record (user_id: %d, item_id: %d): %w", userID, itemID, err)
	}
	return nil
}

func (r *Postgres) UpdateRecord(ctx context.Context, rec *models.ReviewRecord) error {
	query := r.psql.Update("review_records").
		Set("state", rec.State).
		Set("last_reviewed_at", rec.LastReviewedAt).
		Set("next_due_at", rec.NextDueAt).
		Set("review_count", rec.ReviewCount).
		Set("correct_count", rec.CorrectCount).
		Set("incorrect_count", rec.IncorrectCount).
		Set("lapse_count", rec.LapseCount).
		Set("correct_streak", rec.CorrectStreak).
		Set("interval_ns", int64(rec.Interval)).
		Set("ease_factor", rec.EaseFactor).
		Where("user_id = ? AND item_id = ?", rec.UserID, rec.ItemID)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (user_id: %d, item_id: %d): %w", rec.UserID, rec.ItemID, err)
	}

	_, err = r.ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update record (user_id: %d, item_id: %d, review_count: %d): %w",
			rec.UserID, rec.ItemID, rec.ReviewCount, err)
	}
	return nil
}

func (r *Postgres) GetSetRecords(ctx context.Context, userID, setID int64) ([]*models.ReviewRecord, error) {
	query := `
		SELECT r.user_id, r.item_id, r.state, r.last_reviewed_at, r.next_due_at,
		       r.review_count, r.correct_count, r.incorrect_count, r.lapse_count,
		       r.correct_streak, r.interval_ns, r.ease_factor
		FROM review_records r
		JOIN learning_items i ON i.item_id = r.item_id
		WHERE r.user_id = $1 AND i.set_id = $2
	`

	var records []*models.ReviewRecord
	err := r.SelectContext(ctx, &records, query, userID, setID)
	if err != nil {
		return nil, fmt.Errorf("get set records (user_id: %d, set_id: %d): %w", userID, setID, err)
	}

	return records, nil
}
