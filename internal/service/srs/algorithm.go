package srs

import (
	"fmt"
	"time"

	"github.com/flashvault/flashvault/internal/models"
)

// Config holds the scheduling knobs. Defaults follow the web app's historical
// tuning: one hour for the first learning interval, a 30 minute retry after a
// miss, a 30 day ceiling, and SM-2 ease bounds.
type Config struct {
	BaseInterval  time.Duration // first learning interval
	RetryInterval time.Duration // interval after an incorrect answer
	MinInterval   time.Duration // floor for any computed interval
	MaxInterval   time.Duration // ceiling for interval growth

	DefaultEase float64
	MinEase     float64
	MaxEase     float64
	EaseBonus   float64 // added per correct answer
	EasePenalty float64 // subtracted per incorrect answer

	LearningStreak  int           // correct streak promoting learning -> reviewing
	MasteryStreak   int           // minimum streak for mastery
	MasteryInterval time.Duration // minimum interval for mastery

	DueSoonWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseInterval:    time.Hour,
		RetryInterval:   30 * time.Minute,
		MinInterval:     time.Minute,
		MaxInterval:     30 * 24 * time.Hour,
		DefaultEase:     2.5,
		MinEase:         1.3,
		MaxEase:         3.0,
		EaseBonus:       0.05,
		EasePenalty:     0.2,
		LearningStreak:  3,
		MasteryStreak:   5,
		MasteryInterval: 21 * 24 * time.Hour,
		DueSoonWindow:   24 * time.Hour,
	}
}

// StaleReviewError rejects a submission whose timestamp precedes the record's
// last review. The record is left unchanged.
type StaleReviewError struct {
	UserID         int64
	ItemID         int64
	Now            time.Time
	LastReviewedAt time.Time
}

func (e *StaleReviewError) Error() string {
	return fmt.Sprintf("stale review for item %d: submitted at %s, last reviewed at %s",
		e.ItemID, e.Now.Format(time.RFC3339), e.LastReviewedAt.Format(time.RFC3339))
}

// Apply runs one review outcome through the state machine and returns the
// updated record. It is a pure function: rec is taken by value and never
// mutated, and no clock is read besides the caller's now.
//
// Lifecycle: unseen -> learning on first exposure regardless of outcome (an
// item cannot lapse before it has been learned); learning -> reviewing once
// the correct streak reaches LearningStreak; reviewing -> mastered once the
// interval reaches MasteryInterval with at least MasteryStreak consecutive
// correct answers; reviewing|mastered -> lapsed on a miss; lapsed -> learning
// on the next correct answer.
//
// Interval policy: correct answers grow the interval by the ease factor,
// clamped to [MinInterval, MaxInterval]; an incorrect answer resets it to
// RetryInterval outright rather than to a fraction of the prior interval.
func Apply(rec models.ReviewRecord, isCorrect bool, now time.Time, cfg Config) (models.ReviewRecord, error) {
	if rec.LastReviewedAt != nil && now.Before(*rec.LastReviewedAt) {
		return rec, &StaleReviewError{
			UserID:         rec.UserID,
			ItemID:         rec.ItemID,
			Now:            now,
			LastReviewedAt: *rec.LastReviewedAt,
		}
	}

	out := rec
	out.ReviewCount++
	if isCorrect {
		out.CorrectCount++
	} else {
		out.IncorrectCount++
	}

	var interval time.Duration
	switch {
	case rec.State == models.StateUnseen:
		out.State = models.StateLearning
		out.EaseFactor = cfg.DefaultEase
		out.CorrectStreak = 0
		if isCorrect {
			out.CorrectStreak = 1
		}
		interval = cfg.BaseInterval

	case isCorrect:
		out.CorrectStreak++
		// Growth uses the pre-bump ease so a single answer is not rewarded twice.
		interval = clampInterval(time.Duration(float64(rec.Interval)*rec.EaseFactor), cfg)
		out.EaseFactor = clampEase(rec.EaseFactor+cfg.EaseBonus, cfg)

		switch rec.State {
		case models.StateLapsed:
			out.State = models.StateLearning
		case models.StateLearning:
			if out.CorrectStreak >= cfg.LearningStreak {
				out.State = models.StateReviewing
			}
		case models.StateReviewing:
			if interval >= cfg.MasteryInterval && out.CorrectStreak >= cfg.MasteryStreak {
				out.State = models.StateMastered
			}
		}

	default: // incorrect
		out.CorrectStreak = 0
		out.EaseFactor = clampEase(rec.EaseFactor-cfg.EasePenalty, cfg)
		interval = clampInterval(cfg.RetryInterval, cfg)
		if rec.State == models.StateReviewing || rec.State == models.StateMastered {
			out.State = models.StateLapsed
			out.LapseCount++
		}
	}

	out.Interval = interval
	reviewedAt := now
	due := now.Add(interval)
	out.LastReviewedAt = &reviewedAt
	out.NextDueAt = &due

	return out, nil
}

func clampInterval(d time.Duration, cfg Config) time.Duration {
	if d < cfg.MinInterval {
		return cfg.MinInterval
	}
	if d > cfg.MaxInterval {
		return cfg.MaxInterval
	}
	return d
}

func clampEase(ease float64, cfg Config) float64 {
	if ease < cfg.MinEase {
		return cfg.MinEase
	}
	if ease > cfg.MaxEase {
		return cfg.MaxEase
	}
	return ease
}
