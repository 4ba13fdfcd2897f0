package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flashvault/flashvault/internal/models"
	"github.com/flashvault/flashvault/internal/service/srs"
	"go.uber.org/zap"
)

// Service is the scheduling and progress engine. All time-dependent methods
// take an explicit now so one request sees one consistent instant.
type Service struct {
	repo models.Repository
	cfg  srs.Config
}

func NewService(repo models.Repository, cfg srs.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// SubmitReview applies one review outcome to the (userID, itemID) record and
// appends a review event, all inside a single transaction. The record row is
// locked for the duration, so concurrent submissions for the same pair
// serialize; a failure rolls back both writes.
//
// Each call counts as one attempt. The engine does not deduplicate retries;
// callers must prevent duplicate submission of the same logical answer.
func (s *Service) SubmitReview(ctx context.Context, userID, itemID int64, isCorrect bool, now time.Time) (*models.ReviewRecord, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "get item", Err: err}
	}
	if item == nil {
		return nil, &UnknownItemError{ItemID: itemID}
	}

	var updated *models.ReviewRecord
	err = s.repo.RunInTx(ctx, func(tx models.Repository) error {
		if err := tx.EnsureRecord(ctx, userID, itemID); err != nil {
			return fmt.Errorf("ensure record (user_id: %d, item_id: %d): %w", userID, itemID, err)
		}

		rec, err := tx.GetRecordForUpdate(ctx, userID, itemID)
		if err != nil {
			return fmt.Errorf("lock record (user_id: %d, item_id: %d): %w", userID, itemID, err)
		}

		wasNew := rec.State == models.StateUnseen

		next, err := srs.Apply(*rec, isCorrect, now, s.cfg)
		if err != nil {
			return err
		}

		if err := tx.UpdateRecord(ctx, &next); err != nil {
			return fmt.Errorf("update record (user_id: %d, item_id: %d): %w", userID, itemID, err)
		}

		event := &models.ReviewEvent{
			UserID:     userID,
			ItemID:     itemID,
			SetID:      item.SetID,
			IsCorrect:  isCorrect,
			WasNew:     wasNew,
			ReviewedAt: now,
		}
		if err := tx.AddReviewEvent(ctx, event); err != nil {
			return fmt.Errorf("add review event (user_id: %d, item_id: %d): %w", userID, itemID, err)
		}

		updated = &next
		return nil
	})
	if err != nil {
		var stale *srs.StaleReviewError
		if errors.As(err, &stale) {
			return nil, err
		}
		zap.S().Error("submit review", zap.Error(err), zap.Int64("user_id", userID), zap.Int64("item_id", itemID))
		return nil, &StoreUnavailableError{Op: "submit review", Err: err}
	}

	return updated, nil
}
