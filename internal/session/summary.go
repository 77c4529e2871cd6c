package session

import (
	"time"

	"github.com/abhisek/cramkit/internal/store"
)

// Summary holds the data displayed after a session ends.
type Summary struct {
	ID        string
	Mode      string
	Duration  time.Duration
	Attempted int
	Correct   int
	Accuracy  float64 // Correct / Attempted, as a percentage
}

// BuildSummary creates a Summary from a stored session.
func BuildSummary(s *store.StudySession) *Summary {
	var accuracy float64
	if s.Attempted > 0 {
		accuracy = float64(s.Correct) / float64(s.Attempted) * 100
	}

	return &Summary{
		ID:        s.ID,
		Mode:      s.Mode,
		Duration:  s.Duration(),
		Attempted: s.Attempted,
		Correct:   s.Correct,
		Accuracy:  accuracy,
	}
}
