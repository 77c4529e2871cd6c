// Package memstore is an in-memory implementation of the store repositories
// for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/cramkit/internal/store"
)

// Store keeps all repositories in maps. Setting Err makes every call fail
// with it.
type Store struct {
	mu       sync.Mutex
	records  map[string]store.ProgressRecord
	sessions map[string]store.StudySession
	items    map[string]store.LearningItem
	weights  map[[2]string]int

	Err error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		records:  make(map[string]store.ProgressRecord),
		sessions: make(map[string]store.StudySession),
		items:    make(map[string]store.LearningItem),
		weights:  make(map[[2]string]int),
	}
}

// ProgressRepo returns the progress view of the store.
func (s *Store) ProgressRepo() store.ProgressRepo { return (*progress)(s) }

// SessionRepo returns the session view of the store.
func (s *Store) SessionRepo() store.SessionRepo { return (*sessions)(s) }

// ItemRepo returns the catalog view of the store.
func (s *Store) ItemRepo() store.ItemRepo { return (*items)(s) }

// Reset clears progress records and sessions.
func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.records = make(map[string]store.ProgressRecord)
	s.sessions = make(map[string]store.StudySession)
	return nil
}

type progress Store

func (p *progress) Get(_ context.Context, itemID string) (*store.ProgressRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	rec, ok := p.records[itemID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (p *progress) Put(_ context.Context, rec *store.ProgressRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.records[rec.ItemID] = *rec
	return nil
}

func (p *progress) All(context.Context) ([]store.ProgressRecord, error) {
	return p.filter(func(store.ProgressRecord) bool { return true })
}

func (p *progress) DueBy(_ context.Context, t time.Time) ([]store.ProgressRecord, error) {
	return p.filter(func(r store.ProgressRecord) bool { return r.IsDue(t) })
}

func (p *progress) filter(keep func(store.ProgressRecord) bool) ([]store.ProgressRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]store.ProgressRecord, 0, len(p.records))
	for _, r := range p.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

type sessions Store

func (s *sessions) Save(_ context.Context, sess *store.StudySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *sessions) Get(_ context.Context, id string) (*store.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, store.ErrNotFound)
	}
	return &sess, nil
}

func (s *sessions) All(context.Context) ([]store.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]store.StudySession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type items Store

func (s *items) Upsert(_ context.Context, list []store.LearningItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, it := range list {
		s.items[it.ID] = it
	}
	return nil
}

func (s *items) All(ctx context.Context) ([]store.LearningItem, error) {
	return s.filter(func(store.LearningItem) bool { return true })
}

func (s *items) ByCategory(_ context.Context, category string) ([]store.LearningItem, error) {
	return s.filter(func(it store.LearningItem) bool { return it.Category == category })
}

func (s *items) Get(_ context.Context, id string) (*store.LearningItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %q: %w", id, store.ErrNotFound)
	}
	return &it, nil
}

func (s *items) PutTopicWeights(_ context.Context, weights []store.TopicWeight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, w := range weights {
		s.weights[[2]string{w.Category, w.Topic}] = w.Weight
	}
	return nil
}

func (s *items) TopicWeights(context.Context) ([]store.TopicWeight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]store.TopicWeight, 0, len(s.weights))
	for k, w := range s.weights {
		out = append(out, store.TopicWeight{Category: k[0], Topic: k[1], Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Topic < out[j].Topic
	})
	return out, nil
}

func (s *items) filter(keep func(store.LearningItem) bool) ([]store.LearningItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]store.LearningItem, 0, len(s.items))
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
