package spacedrep

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/cramkit/internal/catalog"
	"github.com/abhisek/cramkit/internal/store"
)

// Scheduler records answers and decides when each item is due again.
type Scheduler struct {
	progress store.ProgressRepo
	catalog  catalog.Source
	policy   IntervalPolicy
	now      func() time.Time
	log      logrus.FieldLogger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithCatalog makes RecordOutcome reject item IDs the catalog does not know.
func WithCatalog(src catalog.Source) Option {
	return func(s *Scheduler) { s.catalog = src }
}

// WithPolicy replaces NextInterval.
func WithPolicy(p IntervalPolicy) Option {
	return func(s *Scheduler) { s.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) { s.log = l }
}

// NewScheduler creates a scheduler on top of the given progress repository.
func NewScheduler(progress store.ProgressRepo, opts ...Option) *Scheduler {
	s := &Scheduler{
		progress: progress,
		policy:   NextInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// RecordOutcome applies one answer to the item's progress record and
// persists it. An absent record is created. Store errors are returned
// wrapped; nothing is retried.
func (s *Scheduler) RecordOutcome(ctx context.Context, itemID string, correct bool, confidence int) (*store.ProgressRecord, error) {
	if itemID == "" {
		return nil, store.InvalidInput("item_id", "must not be empty")
	}
	if confidence < MinConfidence || confidence > MaxConfidence {
		return nil, store.InvalidInput("confidence", "must be between %d and %d, got %d",
			MinConfidence, MaxConfidence, confidence)
	}
	if s.catalog != nil {
		cat, err := s.catalog.Catalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		if !cat.Has(itemID) {
			return nil, store.InvalidInput("item_id", "unknown item %q", itemID)
		}
	}

	prev, err := s.progress.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}

	rec := Apply(prev, itemID, correct, confidence, s.now(), s.policy)
	if err := s.progress.Put(ctx, &rec); err != nil {
		return nil, fmt.Errorf("write progress: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"item":    itemID,
		"correct": correct,
		"streak":  rec.CorrectStreak,
		"next":    rec.NextReviewAt.Format(time.RFC3339),
	}).Debug("outcome recorded")

	return &rec, nil
}

// Due returns the records due at the scheduler's current time.
func (s *Scheduler) Due(ctx context.Context) ([]store.ProgressRecord, error) {
	recs, err := s.progress.DueBy(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("query due records: %w", err)
	}
	return recs, nil
}

// Now returns the scheduler's clock reading.
func (s *Scheduler) Now() time.Time {
	return s.now()
}
