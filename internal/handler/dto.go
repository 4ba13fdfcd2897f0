package handler

import (
	"time"

	"github.com/flashvault/flashvault/internal/models"
)

type SubmitReviewRequest struct {
	UserID   int64           `json:"user_id" binding:"required"`
	ItemID   int64           `json:"item_id" binding:"required"`
	ItemType models.ItemType `json:"item_type"`
	// Pointer so an explicit false passes required validation.
	IsCorrect *bool `json:"is_correct" binding:"required"`
	// Optional; server time is used when absent.
	Timestamp *time.Time `json:"timestamp"`
}

type SubmitReviewResponse struct {
	State         string     `json:"state"`
	NextDueAt     *time.Time `json:"next_due_at"`
	CorrectStreak int        `json:"correct_streak"`
	ReviewCount   int        `json:"review_count"`
	CorrectCount  int        `json:"correct_count"`
}

type CreateSetRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Items       []*models.LearningItem `json:"items"`
}

type StartSessionRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	BatchSize int   `json:"batch_size"`
}

type StartSessionResponse struct {
	SessionID string                 `json:"session_id"`
	Items     []*models.LearningItem `json:"items"`
}

type CompleteSessionRequest struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

type BatchResponse struct {
	ItemIDs []int64 `json:"item_ids"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
