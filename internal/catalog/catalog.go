// Package catalog holds the static, read-only set of learning items and the
// exam-importance weight of each topic.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/abhisek/cramkit/internal/store"
)

// TopicKey returns the map key used for per-topic aggregation.
func TopicKey(category, topic string) string {
	return category + ":" + topic
}

// WeightTable maps TopicKey to the topic's weight.
type WeightTable map[string]int

// Weight returns the weight configured for category/topic.
func (w WeightTable) Weight(category, topic string) (int, bool) {
	v, ok := w[TopicKey(category, topic)]
	return v, ok
}

// Catalog is an immutable, id-indexed view over the learning items.
type Catalog struct {
	items   []store.LearningItem
	byID    map[string]int
	weights WeightTable
}

// New builds a Catalog. Item IDs must be non-empty and unique. Topics without
// an explicit weight get the largest weight among their items.
func New(items []store.LearningItem, weights []store.TopicWeight) (*Catalog, error) {
	c := &Catalog{
		items:   make([]store.LearningItem, 0, len(items)),
		byID:    make(map[string]int, len(items)),
		weights: make(WeightTable),
	}

	for i, it := range items {
		if it.ID == "" {
			return nil, store.InvalidInput("items", "item %d has an empty id", i)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, store.InvalidInput("items", "duplicate item id %q", it.ID)
		}
		if it.Weight < 0 {
			return nil, store.InvalidInput("items", "item %q has negative weight %d", it.ID, it.Weight)
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)

		key := TopicKey(it.Category, it.Topic)
		if cur, ok := c.weights[key]; !ok || it.Weight > cur {
			c.weights[key] = it.Weight
		}
	}

	for _, w := range weights {
		if w.Weight < 0 {
			return nil, store.InvalidInput("topic_weights", "topic %s has negative weight %d",
				TopicKey(w.Category, w.Topic), w.Weight)
		}
		c.weights[TopicKey(w.Category, w.Topic)] = w.Weight
	}

	return c, nil
}

// Catalog implements Source.
func (c *Catalog) Catalog(context.Context) (*Catalog, error) {
	return c, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of all items in catalog order.
func (c *Catalog) Items() []store.LearningItem {
	out := make([]store.LearningItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup returns the item with the given id.
func (c *Catalog) Lookup(id string) (store.LearningItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return store.LearningItem{}, false
	}
	return c.items[i], true
}

// Has reports whether id is part of the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Filter returns the items matching category and topic in catalog order.
// An empty category or topic matches everything.
func (c *Catalog) Filter(category, topic string) []store.LearningItem {
	return lo.Filter(c.items, func(it store.LearningItem, _ int) bool {
		return (category == "" || it.Category == category) &&
			(topic == "" || it.Topic == topic)
	})
}

// Weights returns the topic weight table.
func (c *Catalog) Weights() WeightTable {
	return c.weights
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	cats := lo.Uniq(lo.Map(c.items, func(it store.LearningItem, _ int) string { return it.Category }))
	sort.Strings(cats)
	return cats
}

// Source supplies the current catalog.
type Source interface {
	Catalog(ctx context.Context) (*Catalog, error)
}

// RepoSource reads the catalog from an ItemRepo on every call.
type RepoSource struct {
	repo store.ItemRepo
}

// NewRepoSource returns a Source backed by repo.
func NewRepoSource(repo store.ItemRepo) *RepoSource {
	return &RepoSource{repo: repo}
}

func (s *RepoSource) Catalog(ctx context.Context) (*Catalog, error) {
	items, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog items: %w", err)
	}
	weights, err := s.repo.TopicWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("load topic weights: %w", err)
	}
	return New(items, weights)
}
