package spacedrep

import (
	"fmt"
	"math"
	"time"

	"github.com/abhisek/cramkit/internal/store"
)

// IsDue returns true if the item is due for review (at or past NextReviewAt).
// Items without a record are never due; they are new.
func IsDue(rec *store.ProgressRecord, now time.Time) bool {
	return rec != nil && rec.IsDue(now)
}

// CurrentInterval returns the interval the record was last scheduled with.
func CurrentInterval(rec *store.ProgressRecord) time.Duration {
	if rec == nil {
		return 0
	}
	return rec.NextReviewAt.Sub(rec.LastReviewedAt)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func OverdueDays(rec *store.ProgressRecord, now time.Time) float64 {
	if !IsDue(rec, now) {
		return 0
	}
	return now.Sub(rec.NextReviewAt).Hours() / 24.0
}

// IsOverdue returns true once the item has been due for longer than half of
// its current interval.
func IsOverdue(rec *store.ProgressRecord, now time.Time) bool {
	if !IsDue(rec, now) {
		return false
	}
	grace := CurrentInterval(rec) / 2
	return now.After(rec.NextReviewAt.Add(grace))
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due or never answered.
func DaysUntilReview(rec *store.ProgressRecord, now time.Time) int {
	if rec == nil || rec.IsDue(now) {
		return 0
	}
	return int(rec.NextReviewAt.Sub(now).Hours()/24.0) + 1
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	StatusNew       ReviewStatus = "new"
	StatusDue       ReviewStatus = "due"
	StatusOverdue   ReviewStatus = "overdue"
	StatusScheduled ReviewStatus = "scheduled"
	StatusMastered  ReviewStatus = "mastered"
)

// Status returns the review status for UI display.
func Status(rec *store.ProgressRecord, now time.Time) ReviewStatus {
	switch {
	case rec == nil:
		return StatusNew
	case IsOverdue(rec, now):
		return StatusOverdue
	case rec.IsDue(now):
		return StatusDue
	case rec.Mastered():
		return StatusMastered
	default:
		return StatusScheduled
	}
}

// Describe returns a short schedule label such as "new", "due",
// "overdue 3d" or "in 4d".
func Describe(rec *store.ProgressRecord, now time.Time) string {
	switch {
	case rec == nil:
		return string(StatusNew)
	case IsOverdue(rec, now):
		return fmt.Sprintf("%s %.0fd", StatusOverdue, math.Ceil(OverdueDays(rec, now)))
	case rec.IsDue(now):
		return string(StatusDue)
	default:
		return fmt.Sprintf("in %dd", DaysUntilReview(rec, now))
	}
}
