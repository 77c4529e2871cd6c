package session

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/cramkit/internal/catalog"
	"github.com/abhisek/cramkit/internal/store"
)

// DefaultLimit is the number of items served per session when the caller
// has no preference.
const DefaultLimit = 20

// Filter narrows review selection to a category and/or topic.
// Empty fields match everything.
type Filter struct {
	Category string
	Topic    string
}

// Option configures a Selector or Tracker.
type Option func(*options)

type options struct {
	now   func() time.Time
	log   logrus.FieldLogger
	newID func() string
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithIDGenerator overrides the session ID generator.
func WithIDGenerator(f func() string) Option {
	return func(o *options) { o.newID = f }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = l
	}
	return o
}

// Selector picks the items a session serves.
type Selector struct {
	progress store.ProgressRepo
	catalog  catalog.Source
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewSelector creates a Selector.
func NewSelector(progress store.ProgressRepo, src catalog.Source, opts ...Option) *Selector {
	o := buildOptions(opts)
	return &Selector{
		progress: progress,
		catalog:  src,
		now:      o.now,
		log:      o.log,
	}
}

// candidate is a catalog item annotated with its review state.
type candidate struct {
	item      store.LearningItem
	attempted bool
	due       bool
}

// Key comparators, one per priority level. Each returns <0 when a sorts first.

func unattemptedFirst(a, b candidate) int { return trueFirst(!a.attempted, !b.attempted) }

func dueFirst(a, b candidate) int { return trueFirst(a.due, b.due) }

func heavierFirst(a, b candidate) int { return cmp.Compare(b.item.Weight, a.item.Weight) }

// reviewOrder chains the key comparators into one total order.
func reviewOrder(keys ...func(a, b candidate) int) func(a, b candidate) int {
	return func(a, b candidate) int {
		for _, key := range keys {
			if c := key(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

var reviewPriority = reviewOrder(unattemptedFirst, dueFirst, heavierFirst)

func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// SelectForReview returns up to limit items from the filtered catalog:
// never-attempted items first, then due items, then the rest, heavier
// items first within each group. Ties keep catalog order.
func (s *Selector) SelectForReview(ctx context.Context, f Filter, limit int) ([]store.LearningItem, error) {
	if limit <= 0 {
		return nil, store.InvalidInput("limit", "must be positive, got %d", limit)
	}

	records, err := s.progress.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	now := s.now()
	byID := lo.KeyBy(records, func(r store.ProgressRecord) string { return r.ItemID })

	pool := lo.Map(cat.Filter(f.Category, f.Topic), func(it store.LearningItem, _ int) candidate {
		rec, attempted := byID[it.ID]
		return candidate{
			item:      it,
			attempted: attempted,
			due:       attempted && rec.IsDue(now),
		}
	})
	slices.SortStableFunc(pool, reviewPriority)

	if len(pool) > limit {
		pool = pool[:limit]
	}

	s.log.WithFields(logrus.Fields{
		"category": f.Category,
		"topic":    f.Topic,
		"selected": len(pool),
	}).Debug("review items selected")

	return lo.Map(pool, func(c candidate, _ int) store.LearningItem { return c.item }), nil
}

// SelectWeak returns up to limit weak items, most mistakes first.
// Records whose item is missing from the catalog are skipped.
func (s *Selector) SelectWeak(ctx context.Context, limit int) ([]store.LearningItem, error) {
	if limit <= 0 {
		return nil, store.InvalidInput("limit", "must be positive, got %d", limit)
	}

	records, err := s.progress.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	weak := lo.Filter(records, func(r store.ProgressRecord, _ int) bool { return r.Weak() })
	slices.SortStableFunc(weak, func(a, b store.ProgressRecord) int {
		return cmp.Compare(b.IncorrectCount, a.IncorrectCount)
	})

	items := lo.FilterMap(weak, func(r store.ProgressRecord, _ int) (store.LearningItem, bool) {
		it, ok := cat.Lookup(r.ItemID)
		if !ok {
			s.log.WithField("item", r.ItemID).Debug("weak item not in catalog, skipped")
		}
		return it, ok
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
