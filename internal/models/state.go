package models

import (
	"database/sql/driver"
	"encoding"
	"fmt"
)

// ReviewState represents where an item sits in a learner's review lifecycle.
type ReviewState int

const (
	StateUnseen    ReviewState = iota // never reviewed, no due time
	StateLearning                     // in the initial learning pipeline
	StateReviewing                    // graduated from learning, long intervals
	StateMastered                     // long interval and stable streak
	StateLapsed                       // failed after reviewing/mastered
)

var (
	stateNames = [...]string{
		StateUnseen:    "unseen",
		StateLearning:  "learning",
		StateReviewing: "reviewing",
		StateMastered:  "mastered",
		StateLapsed:    "lapsed",
	}
	stateByName = map[string]ReviewState{
		"unseen":    StateUnseen,
		"learning":  StateLearning,
		"reviewing": StateReviewing,
		"mastered":  StateMastered,
		"lapsed":    StateLapsed,
	}
)

var (
	_ fmt.Stringer             = ReviewState(0)
	_ encoding.TextMarshaler   = ReviewState(0)
	_ encoding.TextUnmarshaler = (*ReviewState)(nil)
	_ driver.Valuer            = ReviewState(0)
)

// IsValid reports whether s is one of the five lifecycle states.
func (s ReviewState) IsValid() bool {
	return s >= StateUnseen && s <= StateLapsed
}

// String returns the lowercase name of the state. For invalid values it
// returns "ReviewState(n)".
func (s ReviewState) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("ReviewState(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ReviewState) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid review state: %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ReviewState) UnmarshalText(text []byte) error {
	v, ok := stateByName[string(text)]
	if !ok {
		return fmt.Errorf("invalid review state: %q", text)
	}
	*s = v
	return nil
}

// Value implements driver.Valuer so the state is stored as text.
func (s ReviewState) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid review state: %d", int(s))
	}
	return stateNames[s], nil
}

// Scan implements sql.Scanner.
func (s *ReviewState) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan review state from %T", src)
	}
}
