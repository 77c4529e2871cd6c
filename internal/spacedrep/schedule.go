package spacedrep

import (
	"time"

	"github.com/abhisek/cramkit/internal/store"
)

// Scheduling constants.
const (
	// Day is the base review interval.
	Day = 24 * time.Hour

	// NewItemRetryInterval is used when the very first answer is wrong.
	NewItemRetryInterval = 4 * time.Hour

	// MaxMultiplier caps the exponential interval growth at 30 days.
	MaxMultiplier = 30
)

// Confidence bounds as reported by the learner.
const (
	MinConfidence     = 1
	MaxConfidence     = 5
	DefaultConfidence = 3
)

// Multiplier returns min(2^streak, MaxMultiplier). Negative streaks count as 0.
func Multiplier(streak int) int {
	m := 1
	for i := 0; i < streak && m < MaxMultiplier; i++ {
		m *= 2
	}
	return min(m, MaxMultiplier)
}

// IntervalPolicy computes the time until the next review after one answer.
// existing reports whether the item had a record before the answer and
// newStreak is the correct streak after it.
type IntervalPolicy func(existing, correct bool, newStreak int) time.Duration

// NextInterval is the default IntervalPolicy.
//
// A first answer schedules one day out when correct and NewItemRetryInterval
// when wrong. Later answers schedule Day*Multiplier(newStreak), so a wrong
// answer on an existing record (streak reset to 0) gets the same one-day
// interval as a first correct answer.
func NextInterval(existing, correct bool, newStreak int) time.Duration {
	if !existing {
		if correct {
			return Day
		}
		return NewItemRetryInterval
	}
	return Day * time.Duration(Multiplier(newStreak))
}

// Apply folds one answer into prev and returns the resulting record.
// prev is nil when the item has never been answered.
func Apply(prev *store.ProgressRecord, itemID string, correct bool, confidence int, now time.Time, policy IntervalPolicy) store.ProgressRecord {
	if policy == nil {
		policy = NextInterval
	}

	var rec store.ProgressRecord
	if prev != nil {
		rec = *prev
	}
	rec.ItemID = itemID

	if correct {
		rec.CorrectStreak++
	} else {
		rec.CorrectStreak = 0
		rec.IncorrectCount++
	}
	rec.TotalAttempts++
	rec.Confidence = confidence
	rec.LastReviewedAt = now
	rec.NextReviewAt = now.Add(policy(prev != nil, correct, rec.CorrectStreak))
	return rec
}
