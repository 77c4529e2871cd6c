package mastery

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/cramkit/internal/catalog"
	"github.com/abhisek/cramkit/internal/store"
)

// RecentSessions is the number of sessions listed on the dashboard.
const RecentSessions = 5

// Service computes statistics from the stored progress and the catalog.
type Service struct {
	progress store.ProgressRepo
	sessions store.SessionRepo
	catalog  catalog.Source
	now      func() time.Time
}

// NewService creates a Service. now defaults to time.Now when nil.
func NewService(progress store.ProgressRepo, sessions store.SessionRepo, src catalog.Source, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		progress: progress,
		sessions: sessions,
		catalog:  src,
		now:      now,
	}
}

// Dashboard is the summary shown on the stats screen.
type Dashboard struct {
	Readiness       float64
	OverallAccuracy float64
	TotalItems      int
	Attempted       int
	Mastered        int
	Due             int
	States          map[MasteryState]int
	Topics          []TopicStat
	StudyTime       time.Duration
	Sessions        int
	Recent          []store.StudySession // newest first
}

// TopicStats loads records and catalog and computes per-topic statistics.
func (s *Service) TopicStats(ctx context.Context) (map[string]*TopicStat, error) {
	records, cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeTopicStats(records, cat), nil
}

// Readiness computes the current readiness score.
func (s *Service) Readiness(ctx context.Context) (float64, error) {
	records, cat, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return ComputeReadiness(ComputeTopicStats(records, cat), cat.Weights()), nil
}

// OverallAccuracy computes the overall accuracy over all records.
func (s *Service) OverallAccuracy(ctx context.Context) (float64, error) {
	records, err := s.progress.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("read progress: %w", err)
	}
	return ComputeOverallAccuracy(records), nil
}

func (s *Service) load(ctx context.Context) ([]store.ProgressRecord, *catalog.Catalog, error) {
	var (
		records []store.ProgressRecord
		cat     *catalog.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.progress.All(gctx)
		if err != nil {
			return fmt.Errorf("read progress: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cat, err = s.catalog.Catalog(gctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, cat, nil
}

// Dashboard reads progress, catalog and sessions concurrently and
// assembles the stats screen.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var sessions []store.StudySession

	g, gctx := errgroup.WithContext(ctx)
	var (
		records []store.ProgressRecord
		cat     *catalog.Catalog
	)
	g.Go(func() error {
		var err error
		records, cat, err = s.load(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.sessions.All(gctx)
		if err != nil {
			return fmt.Errorf("read sessions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	stats := ComputeTopicStats(records, cat)

	d := &Dashboard{
		Readiness:       ComputeReadiness(stats, cat.Weights()),
		OverallAccuracy: ComputeOverallAccuracy(records),
		TotalItems:      cat.Len(),
		States:          make(map[MasteryState]int),
		Topics:          SortedTopics(stats),
		Sessions:        len(sessions),
	}

	for i := range records {
		rec := &records[i]
		if !cat.Has(rec.ItemID) {
			continue
		}
		d.Attempted++
		if rec.Mastered() {
			d.Mastered++
		}
		if rec.IsDue(now) {
			d.Due++
		}
		d.States[StateOf(rec)]++
	}
	d.States[StateNew] = d.TotalItems - d.Attempted

	for _, sess := range sessions {
		d.StudyTime += sess.Duration()
	}
	for i := len(sessions) - 1; i >= 0 && len(d.Recent) < RecentSessions; i-- {
		d.Recent = append(d.Recent, sessions[i])
	}

	return d, nil
}
