package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flashvault/flashvault/internal/models"
)

func (r *Postgres) CreateSession(ctx context.Context, session *models.LearningSession) error {
	query := r.psql.Insert("learning_sessions").
		Columns("session_id", "user_id", "set_id", "item_order", "total_items",
			"answered_count", "correct_count", "started_at").
		Values(session.SessionID, session.UserID, session.SetID, session.ItemOrder,
			session.TotalItems, session.AnsweredCount, session.CorrectCount, session.StartedAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (session_id: %s): %w", session.SessionID, err)
	}

	_, err = r.ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("create session (session_id: %s, user_id: %d): %w",
			session.SessionID, session.UserID, err)
	}
	return nil
}

func (r *Postgres) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.LearningSession, error) {
	query := `
		SELECT session_id, user_id, set_id, item_order, total_items,
		       answered_count, correct_count, started_at, completed_at
		FROM learning_sessions
		WHERE session_id = $1
	`

	var session models.LearningSession
	err := r.GetContext(ctx, &session, query, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session (session_id: %s): %w", sessionID, err)
	}

	return &session, nil
}

func (r *Postgres) FinishSession(ctx context.Context, sessionID uuid.UUID, answered, correct int, completedAt time.Time) error {
	query := r.psql.Update("learning_sessions").
		Set("answered_count", answered).
		Set("correct_count", correct).
		Set("completed_at", completedAt).
		Where("session_id = ?", sessionID)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (session_id: %s): %w", sessionID, err)
	}

	_, err = r.ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("finish session (session_id: %s): %w", sessionID, err)
	}
	return nil
}
