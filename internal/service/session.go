package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/flashvault/flashvault/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBatchSize caps a session batch when the caller does not ask for a
// specific size.
const DefaultBatchSize = 20

// NextBatch picks the ordered item IDs to present next. Priority: lapsed
// items due now, then due reviewing/mastered items (most overdue first), then
// due learning items, then unseen items in catalog position order. Ties break
// by ascending item ID. A set with no items at all is an error; a set with
// nothing due returns an empty batch.
func (s *Service) NextBatch(ctx context.Context, userID, setID int64, now time.Time, batchSize int) ([]int64, error) {
	items, err := s.nextBatchItems(ctx, userID, setID, now, batchSize)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}
	return ids, nil
}

func (s *Service) nextBatchItems(ctx context.Context, userID, setID int64, now time.Time, batchSize int) ([]*models.LearningItem, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	items, recByItem, err := s.fetchSetState(ctx, userID, setID)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "select batch", Err: err}
	}
	if len(items) == 0 {
		return nil, &EmptySetError{SetID: setID}
	}

	type candidate struct {
		item    *models.LearningItem
		overdue time.Duration
	}

	var lapsed, reviewing, learning, unseen []candidate
	for _, item := range items {
		rec := recByItem[item.ItemID]
		if rec == nil || rec.State == models.StateUnseen {
			unseen = append(unseen, candidate{item: item})
			continue
		}
		if !rec.Due(now) {
			continue
		}
		c := candidate{item: item, overdue: rec.Overdue(now)}
		switch rec.State {
		case models.StateLapsed:
			lapsed = append(lapsed, c)
		case models.StateReviewing, models.StateMastered:
			reviewing = append(reviewing, c)
		case models.StateLearning:
			learning = append(learning, c)
		}
	}

	mostOverdueFirst := func(a, b candidate) int {
		if c := cmp.Compare(b.overdue, a.overdue); c != 0 {
			return c
		}
		return cmp.Compare(a.item.ItemID, b.item.ItemID)
	}
	slices.SortFunc(lapsed, mostOverdueFirst)
	slices.SortFunc(reviewing, mostOverdueFirst)
	slices.SortFunc(learning, mostOverdueFirst)
	slices.SortFunc(unseen, func(a, b candidate) int {
		if c := cmp.Compare(a.item.Position, b.item.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.item.ItemID, b.item.ItemID)
	})

	batch := make([]*models.LearningItem, 0, batchSize)
	for _, group := range [][]candidate{lapsed, reviewing, learning, unseen} {
		for _, c := range group {
			if len(batch) == batchSize {
				return batch, nil
			}
			batch = append(batch, c.item)
		}
	}
	return batch, nil
}

// StartSession snapshots the next batch into a persisted learning session.
// When nothing is due and nothing is unseen, no session is created and both
// return values are nil.
func (s *Service) StartSession(ctx context.Context, userID, setID int64, now time.Time, batchSize int) (*models.LearningSession, []*models.LearningItem, error) {
	items, err := s.nextBatchItems(ctx, userID, setID, now, batchSize)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}

	session := &models.LearningSession{
		SessionID:  uuid.New(),
		UserID:     userID,
		SetID:      setID,
		ItemOrder:  joinItemIDs(ids),
		TotalItems: len(items),
		StartedAt:  now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		zap.S().Error("create session", zap.Error(err), zap.Int64("user_id", userID), zap.Int64("set_id", setID))
		return nil, nil, &StoreUnavailableError{Op: "create session", Err: err}
	}

	return session, items, nil
}

// CompleteSession finalizes a session's counters.
func (s *Service) CompleteSession(ctx context.Context, sessionID uuid.UUID, answered, correct int, now time.Time) (*models.LearningSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "get session", Err: err}
	}
	if session == nil {
		return nil, &UnknownSessionError{SessionID: sessionID.String()}
	}

	if err := s.repo.FinishSession(ctx, sessionID, answered, correct, now); err != nil {
		return nil, &StoreUnavailableError{Op: "finish session", Err: err}
	}

	session.AnsweredCount = answered
	session.CorrectCount = correct
	session.CompletedAt = &now
	return session, nil
}

func joinItemIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// SplitItemOrder parses a session's stored item order back into IDs.
func SplitItemOrder(order string) ([]int64, error) {
	if order == "" {
		return nil, nil
	}
	parts := strings.Split(order, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse item order %q: %w", order, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
