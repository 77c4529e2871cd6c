package store

import "time"

// MasteryStreak is the correct-answer streak at which an item counts as mastered.
const MasteryStreak = 3

// WeakStreak is the streak below which an item with mistakes counts as weak.
const WeakStreak = 2

// LearningItem is a single entry of the static catalog.
type LearningItem struct {
	ID         string
	Topic      string
	Category   string
	Weight     int // relative exam importance
	Difficulty int
	Prompt     string
}

// TopicWeight is the exam-importance weight configured for one topic.
type TopicWeight struct {
	Category string
	Topic    string
	Weight   int
}

// ProgressRecord is the scheduling state for one learning item.
// A record exists only for items that have been answered at least once.
type ProgressRecord struct {
	ItemID         string
	LastReviewedAt time.Time
	CorrectStreak  int
	IncorrectCount int
	TotalAttempts  int
	Confidence     int // 1-5, as reported by the learner
	NextReviewAt   time.Time
}

// Mastered reports whether the record's streak reaches MasteryStreak.
func (r *ProgressRecord) Mastered() bool {
	return r.CorrectStreak >= MasteryStreak
}

// Weak reports whether the item has mistakes and a streak below WeakStreak.
func (r *ProgressRecord) Weak() bool {
	return r.IncorrectCount > 0 && r.CorrectStreak < WeakStreak
}

// IsDue reports whether the item is due at now (NextReviewAt <= now).
func (r *ProgressRecord) IsDue(now time.Time) bool {
	return !now.Before(r.NextReviewAt)
}

// StudySession is one study sitting. EndedAt is nil while the session is open.
type StudySession struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Mode      string
	Attempted int
	Correct   int
	Category  string // optional scope
	Topic     string // optional scope
}

// Open reports whether the session has not been ended yet.
func (s *StudySession) Open() bool {
	return s.EndedAt == nil
}

// Duration returns the elapsed time of an ended session, or 0 while open.
func (s *StudySession) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	d := s.EndedAt.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}
