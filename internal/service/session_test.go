package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/flashvault/flashvault/internal/models"
)

func TestNextBatchPriorityOrder(t *testing.T) {
	repo := newFakeRepo()
	seedSet(repo, 1, 10, 11, 12, 13, 14, 15, 16)
	svc := newTestService(repo)

	// 10, 11 unseen (positions 0 and 1). 12 lapsed due. 13 mastered barely
	// due, 14 reviewing very overdue. 15 learning due. 16 reviewing not due.
	repo.putRecord(dueRecord(7, 12, models.StateLapsed, testNow.Add(-time.Hour)))
	repo.putRecord(dueRecord(7, 13, models.StateMastered, testNow.Add(-time.Minute)))
	repo.putRecord(dueRecord(7, 14, models.StateReviewing, testNow.Add(-48*time.Hour)))
	repo.putRecord(dueRecord(7, 15, models.StateLearning, testNow.Add(-time.Hour)))
	repo.putRecord(dueRecord(7, 16, models.StateReviewing, testNow.Add(time.Hour)))

	got, err := svc.NextBatch(context.Background(), 7, 1, testNow, 10)
	if err != nil {
		t.Fatalf("NextBatch: %v", err)
	}

	// Lapsed first, then due reviewing/mastered most overdue first, then due
	// learning, then unseen in position order. 16 is not due and stays out.
	want := []int64{12, 14, 13, 15, 10, 11}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("batch order mismatch (-want +got):\n%s", diff)
	}
}

func TestNextBatchSizeCap(t *testing.T) {
	repo := newFakeRepo()
	seedSet(repo, 1, 10, 11, 12, 13)
	svc := newTestService(repo)

	got, err := svc.NextBatch(context.Background(), 7, 1, testNow, 2)
	if err != nil {
		t.Fatalf("NextBatch: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("batch size = %d, want 2", len(got))
	}
}

func TestNextBatchEmptySet(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.NextBatch(context.Background(), 7, 99, testNow, 10)

	var emptyErr *EmptySetError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("err = %v, want EmptySetError", err)
	}
}

func TestNextBatchNothingDue(t *testing.T) {
	repo := newFakeRepo()
	seedSet(repo, 1, 10)
	repo.putRecord(dueRecord(7, 10, models.StateReviewing, testNow.Add(time.Hour)))
	svc := newTestService(repo)

	got, err := svc.NextBatch(context.Background(), 7, 1, testNow, 10)
	if err != nil {
		t.Fatalf("NextBatch: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("batch = %v, want empty when nothing is due", got)
	}
}

// The selector reads; it must not touch records or create sessions.
func TestNextBatchDoesNotMutate(t *testing.T) {
	repo := newFakeRepo()
	seedSet(repo, 1, 10, 11)
	repo.putRecord(dueRecord(7, 10, models.StateLearning, testNow.Add(-time.Minute)))
	svc := newTestService(repo)

	before, _ := repo.GetRecord(context.Background(), 7, 10)
	if _, err := svc.NextBatch(context.Background(), 7, 1, testNow, 10); err != nil {
		t.Fatalf("NextBatch: %v", err)
	}
	after, _ := repo.GetRecord(context.Background(), 7, 10)

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("record changed by batch selection (-want +got):\n%s", diff)
	}
	if len(repo.sessions) != 0 {
		t.Error("session created by NextBatch")
	}
}

func TestStartSession(t *testing.T) {
	repo := newFakeRepo()
	seedSet(repo, 1, 10, 11, 12)
	svc := newTestService(repo)

	session, items, err := svc.StartSession(context.Background(), 7, 1, testNow, 2)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session == nil {
		t.Fatal("no session created")
	}
	if len(items) != 2 || session.TotalItems != 2 {
		t.Errorf("items = %d, total = %d, want 2/2", len(items), session.TotalItems)
	}
	if session.ItemOrder != "10,11" {
		t.Errorf("item order = %q, want \"10,11\"", session.ItemOrder)
	}

	stored, _ := repo.GetSession(context.Background(), session.SessionID)
	if stored == nil {
		t.Fatal("session not persisted")
	}
	if stored.CompletedAt != nil {
		t.Error("fresh session already completed")
	}
}

func TestStartSessionNothingDue(t *testing.T) {
	repo := newFakeRepo()
	seedSet(repo, 1, 10)
	repo.putRecord(dueRecord(7, 10, models.StateMastered, testNow.Add(time.Hour)))
	svc := newTestService(repo)

	session, items, err := svc.StartSession(context.Background(), 7, 1, testNow, 10)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session != nil || items != nil {
		t.Errorf("session = %v, items = %v, want none", session, items)
	}
	if len(repo.sessions) != 0 {
		t.Error("empty session persisted")
	}
}

func TestCompleteSession(t *testing.T) {
	repo := newFakeRepo()
	seedSet(repo, 1, 10, 11)
	svc := newTestService(repo)

	ctx := context.Background()
	session, _, err := svc.StartSession(ctx, 7, 1, testNow, 10)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	done := testNow.Add(10 * time.Minute)
	got, err := svc.CompleteSession(ctx, session.SessionID, 2, 1, done)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if got.AnsweredCount != 2 || got.CorrectCount != 1 {
		t.Errorf("counters = %d/%d, want 2/1", got.AnsweredCount, got.CorrectCount)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("completed at = %v, want %v", got.CompletedAt, done)
	}

	stored, _ := repo.GetSession(ctx, session.SessionID)
	if stored.CompletedAt == nil {
		t.Error("completion not persisted")
	}
}

func TestCompleteSessionUnknown(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CompleteSession(context.Background(), uuid.New(), 1, 1, testNow)

	var unknownErr *UnknownSessionError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("err = %v, want UnknownSessionError", err)
	}
}

func TestSplitItemOrder(t *testing.T) {
	tests := []struct {
		name    string
		order   string
		want    []int64
		wantErr bool
	}{
		{name: "empty", order: "", want: nil},
		{name: "single", order: "42", want: []int64{42}},
		{name: "several", order: "3,1,2", want: []int64{3, 1, 2}},
		{name: "garbage", order: "1,x,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitItemOrder(tt.order)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitItemOrder: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
