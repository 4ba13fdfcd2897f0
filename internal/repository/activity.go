package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/flashvault/flashvault/internal/models"
)

func (r *Postgres) AddReviewEvent(ctx context.Context, ev *models.ReviewEvent) error {
	query := r.psql.Insert("review_events").
		Columns("user_id", "item_id", "set_id", "is_correct", "was_new", "reviewed_at").
		Values(ev.UserID, ev.ItemID, ev.SetID, ev.IsCorrect, ev.WasNew, ev.ReviewedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (user_id: %d, item_id: %d): %w", ev.UserID, ev.ItemID, err)
	}

	_, err = r.ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("add review event (user_id: %d, item_id: %d, reviewed_at: %s): %w",
			ev.UserID, ev.ItemID, ev.ReviewedAt.Format(time.RFC3339), err)
	}
	return nil
}

// GetActivityByDay groups review events by UTC calendar date over [from, to).
// Days with no activity produce no row; the service zero-fills the series.
func (r *Postgres) GetActivityByDay(ctx context.Context, userID int64, from, to time.Time) ([]*models.ActivityLogEntry, error) {
	query := `
		SELECT (reviewed_at AT TIME ZONE 'UTC')::date AS day,
		       COUNT(*) AS review_count,
		       COUNT(*) FILTER (WHERE was_new) AS new_items_count,
		       COUNT(*) FILTER (WHERE is_correct) AS correct_count
		FROM review_events
		WHERE user_id = $1 AND reviewed_at >= $2 AND reviewed_at < $3
		GROUP BY day
		ORDER BY day ASC
	`

	var entries []*models.ActivityLogEntry
	err := r.SelectContext(ctx, &entries, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get activity by day (user_id: %d, from: %s, to: %s): %w",
			userID, from.Format(time.DateOnly), to.Format(time.DateOnly), err)
	}

	return entries, nil
}

// GetRecentReviewDays returns the distinct UTC dates with at least one review
// since the cutoff, newest first.
func (r *Postgres) GetRecentReviewDays(ctx context.Context, userID int64, since time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT (reviewed_at AT TIME ZONE 'UTC')::date AS day
		FROM review_events
		WHERE user_id = $1 AND reviewed_at >= $2
		ORDER BY day DESC
	`

	var days []time.Time
	err := r.SelectContext(ctx, &days, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("get recent review days (user_id: %d): %w", userID, err)
	}

	return days, nil
}

func (r *Postgres) CountReviewsSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	query := r.psql.Select("COUNT(*)").
		From("review_events").
		Where("user_id = ?", userID).
		Where("reviewed_at >= ?", since)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build SQL query (user_id: %d): %w", userID, err)
	}

	var count int
	err = r.QueryRowxContext(ctx, sql, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews since (user_id: %d, since: %s): %w",
			userID, since.Format(time.RFC3339), err)
	}
	return count, nil
}

func (r *Postgres) GetUserIDsWithRecords(ctx context.Context) ([]int64, error) {
	query := `SELECT DISTINCT user_id FROM review_records ORDER BY user_id ASC`

	var ids []int64
	err := r.SelectContext(ctx, &ids, query)
	if err != nil {
		return nil, fmt.Errorf("get user IDs with records: %w", err)
	}

	return ids, nil
}
