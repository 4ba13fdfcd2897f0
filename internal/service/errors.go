package service

import (
	"fmt"
	"time"
)

// UnknownItemError is returned when a review targets an item that is not in
// the catalog. No record is created.
type UnknownItemError struct {
	ItemID int64
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item: %d", e.ItemID)
}

// EmptySetError is returned when a session batch is requested for a set with
// no items at all. A set where nothing is due yields an empty batch instead.
type EmptySetError struct {
	SetID int64
}

func (e *EmptySetError) Error() string {
	return fmt.Sprintf("set %d has no items", e.SetID)
}

// RangeTooLargeError rejects activity queries spanning more than MaxSpan.
type RangeTooLargeError struct {
	From    time.Time
	To      time.Time
	MaxSpan time.Duration
}

func (e *RangeTooLargeError) Error() string {
	return fmt.Sprintf("activity range %s..%s exceeds maximum span of %s",
		e.From.Format(time.DateOnly), e.To.Format(time.DateOnly), e.MaxSpan)
}

// UnknownSessionError is returned when a session ID has no stored session.
type UnknownSessionError struct {
	SessionID string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("unknown session: %s", e.SessionID)
}

// StoreUnavailableError wraps a persistence failure. The pending mutation is
// rolled back; callers may retry the whole submission.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
