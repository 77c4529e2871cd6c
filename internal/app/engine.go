// Package app wires the scheduler, selector, session tracker and statistics
// into the Engine used by the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/cramkit/internal/catalog"
	"github.com/abhisek/cramkit/internal/mastery"
	"github.com/abhisek/cramkit/internal/session"
	"github.com/abhisek/cramkit/internal/spacedrep"
	"github.com/abhisek/cramkit/internal/store"
)

// Options holds the Engine's collaborators. Progress, Sessions, Items and
// Resetter are required.
type Options struct {
	Progress store.ProgressRepo
	Sessions store.SessionRepo
	Items    store.ItemRepo
	Resetter store.Resetter

	Logger logrus.FieldLogger
	Clock  func() time.Time
	Policy spacedrep.IntervalPolicy
}

// Engine is the entry point for every learner-facing operation.
type Engine struct {
	progress store.ProgressRepo
	items    store.ItemRepo
	sessions store.SessionRepo
	resetter store.Resetter
	catalog  *catalogCache

	scheduler *spacedrep.Scheduler
	selector  *session.Selector
	tracker   *session.Tracker
	stats     *mastery.Service

	log logrus.FieldLogger
}

// New builds an Engine from opts.
func New(opts Options) (*Engine, error) {
	if opts.Progress == nil || opts.Sessions == nil || opts.Items == nil || opts.Resetter == nil {
		return nil, errors.New("app: progress, session, item repositories and resetter are required")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}

	cat := &catalogCache{src: catalog.NewRepoSource(opts.Items)}

	schedOpts := []spacedrep.Option{
		spacedrep.WithClock(opts.Clock),
		spacedrep.WithCatalog(cat),
		spacedrep.WithLogger(opts.Logger.WithField("component", "scheduler")),
	}
	if opts.Policy != nil {
		schedOpts = append(schedOpts, spacedrep.WithPolicy(opts.Policy))
	}
	scheduler := spacedrep.NewScheduler(opts.Progress, schedOpts...)

	return &Engine{
		progress:  opts.Progress,
		items:     opts.Items,
		sessions:  opts.Sessions,
		resetter:  opts.Resetter,
		catalog:   cat,
		scheduler: scheduler,
		selector: session.NewSelector(opts.Progress, cat,
			session.WithClock(opts.Clock),
			session.WithLogger(opts.Logger.WithField("component", "selector")),
		),
		tracker: session.NewTracker(opts.Sessions, scheduler,
			session.WithClock(opts.Clock),
			session.WithLogger(opts.Logger.WithField("component", "session")),
		),
		stats: mastery.NewService(opts.Progress, opts.Sessions, cat, opts.Clock),
		log:   opts.Logger,
	}, nil
}

// RecordOutcome applies one answer outside of any session.
func (e *Engine) RecordOutcome(ctx context.Context, itemID string, correct bool, confidence int) (*store.ProgressRecord, error) {
	return e.scheduler.RecordOutcome(ctx, itemID, correct, confidence)
}

// Answer records an answer, counting it toward sessionID when one is given.
func (e *Engine) Answer(ctx context.Context, sessionID, itemID string, correct bool, confidence int) (*store.ProgressRecord, error) {
	if sessionID == "" {
		return e.RecordOutcome(ctx, itemID, correct, confidence)
	}
	return e.tracker.RecordAnswer(ctx, sessionID, itemID, correct, confidence)
}

// SelectForReview returns the next items to study.
func (e *Engine) SelectForReview(ctx context.Context, f session.Filter, limit int) ([]store.LearningItem, error) {
	return e.selector.SelectForReview(ctx, f, limit)
}

// SelectWeak returns the items with the most outstanding mistakes.
func (e *Engine) SelectWeak(ctx context.Context, limit int) ([]store.LearningItem, error) {
	return e.selector.SelectWeak(ctx, limit)
}

// TopicStats returns per-topic statistics keyed by catalog.TopicKey.
func (e *Engine) TopicStats(ctx context.Context) (map[string]*mastery.TopicStat, error) {
	return e.stats.TopicStats(ctx)
}

// Readiness returns the weighted readiness score.
func (e *Engine) Readiness(ctx context.Context) (float64, error) {
	return e.stats.Readiness(ctx)
}

// OverallAccuracy returns the share of items on a positive streak.
func (e *Engine) OverallAccuracy(ctx context.Context) (float64, error) {
	return e.stats.OverallAccuracy(ctx)
}

// Dashboard returns the stats screen summary.
func (e *Engine) Dashboard(ctx context.Context) (*mastery.Dashboard, error) {
	return e.stats.Dashboard(ctx)
}

// Due returns the records due now.
func (e *Engine) Due(ctx context.Context) ([]store.ProgressRecord, error) {
	return e.scheduler.Due(ctx)
}

// StartSession opens a study session.
func (e *Engine) StartSession(ctx context.Context, mode session.Mode, category, topic string) (*store.StudySession, error) {
	return e.tracker.Start(ctx, mode, category, topic)
}

// EndSession closes a study session and summarises it.
func (e *Engine) EndSession(ctx context.Context, sessionID string) (*session.Summary, error) {
	sess, err := e.tracker.End(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.BuildSummary(sess), nil
}

// Progress returns every progress record keyed by item ID.
func (e *Engine) Progress(ctx context.Context) (map[string]store.ProgressRecord, error) {
	records, err := e.progress.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return lo.KeyBy(records, func(r store.ProgressRecord) string { return r.ItemID }), nil
}

// CategoryItems reads the items of one category from the store, optionally
// narrowed to a topic.
func (e *Engine) CategoryItems(ctx context.Context, category, topic string) ([]store.LearningItem, error) {
	items, err := e.items.ByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("items in %q: %w", category, err)
	}
	if topic == "" {
		return items, nil
	}
	return lo.Filter(items, func(it store.LearningItem, _ int) bool { return it.Topic == topic }), nil
}

// Sessions returns every study session, newest first.
func (e *Engine) Sessions(ctx context.Context) ([]store.StudySession, error) {
	sessions, err := e.sessions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	slices.Reverse(sessions)
	return sessions, nil
}

// Catalog returns the current catalog.
func (e *Engine) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return e.catalog.Catalog(ctx)
}

// ImportResult reports what ImportCatalog stored.
type ImportResult struct {
	Items  int
	Topics int
}

// ImportCatalog validates doc and upserts its items and explicit topic
// weights. Existing items with the same ID are replaced.
func (e *Engine) ImportCatalog(ctx context.Context, doc *catalog.Document) (*ImportResult, error) {
	cat, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	if err := e.items.Upsert(ctx, doc.Items); err != nil {
		return nil, fmt.Errorf("store items: %w", err)
	}
	if err := e.items.PutTopicWeights(ctx, doc.TopicWeights); err != nil {
		return nil, fmt.Errorf("store topic weights: %w", err)
	}
	e.catalog.invalidate()

	res := &ImportResult{Items: cat.Len(), Topics: len(cat.Weights())}
	e.log.WithFields(logrus.Fields{"items": res.Items, "topics": res.Topics}).Info("catalog imported")
	return res, nil
}

// Reset clears all progress records and sessions. The catalog is kept.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.resetter.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// catalogCache loads the catalog once and serves it until invalidated.
type catalogCache struct {
	src catalog.Source

	mu  sync.Mutex
	cur *catalog.Catalog
}

func (c *catalogCache) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != nil {
		return c.cur, nil
	}
	cat, err := c.src.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	c.cur = cat
	return cat, nil
}

func (c *catalogCache) invalidate() {
	c.mu.Lock()
	c.cur = nil
	c.mu.Unlock()
}
