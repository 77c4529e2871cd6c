package store

import (
	"context"
	"time"
)

// ProgressRepo persists one ProgressRecord per answered item.
type ProgressRepo interface {
	// Get returns the record for itemID, or nil if the item was never answered.
	Get(ctx context.Context, itemID string) (*ProgressRecord, error)

	// Put creates or replaces the record keyed by rec.ItemID.
	Put(ctx context.Context, rec *ProgressRecord) error

	// All returns every record ordered by item ID.
	All(ctx context.Context) ([]ProgressRecord, error)

	// DueBy returns records with NextReviewAt <= t, ordered by item ID.
	DueBy(ctx context.Context, t time.Time) ([]ProgressRecord, error)
}

// SessionRepo persists study sessions.
type SessionRepo interface {
	// Save creates or replaces the session keyed by s.ID.
	Save(ctx context.Context, s *StudySession) error

	// Get returns the session with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*StudySession, error)

	// All returns every session, oldest first.
	All(ctx context.Context) ([]StudySession, error)
}

// ItemRepo persists the static catalog and its topic weight table.
type ItemRepo interface {
	// Upsert inserts or replaces the given items keyed by ID.
	Upsert(ctx context.Context, items []LearningItem) error

	// All returns every item ordered by ID.
	All(ctx context.Context) ([]LearningItem, error)

	// ByCategory returns the items of one category ordered by ID.
	ByCategory(ctx context.Context, category string) ([]LearningItem, error)

	// Get returns the item with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*LearningItem, error)

	// PutTopicWeights inserts or replaces topic weights keyed by category and topic.
	PutTopicWeights(ctx context.Context, weights []TopicWeight) error

	// TopicWeights returns the configured topic weights.
	TopicWeights(ctx context.Context) ([]TopicWeight, error)
}

// Resetter clears all learner state (progress records and sessions).
// The catalog is left untouched.
type Resetter interface {
	Reset(ctx context.Context) error
}
