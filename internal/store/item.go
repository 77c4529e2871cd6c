package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

var itemColumns = []string{"id", "topic", "category", "weight", "difficulty", "prompt"}

type itemRow struct {
	ID         string `db:"id"`
	Topic      string `db:"topic"`
	Category   string `db:"category"`
	Weight     int    `db:"weight"`
	Difficulty int    `db:"difficulty"`
	Prompt     string `db:"prompt"`
}

func (r itemRow) item() LearningItem {
	return LearningItem(r)
}

type topicWeightRow struct {
	Category string `db:"category"`
	Topic    string `db:"topic"`
	Weight   int    `db:"weight"`
}

// itemRepo implements ItemRepo.
type itemRepo struct {
	db      *sqlx.DB
	dialect string
}

func (r *itemRepo) Upsert(ctx context.Context, items []LearningItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin item upsert: %w", err)
	}
	b := builder(r.dialect)
	for _, it := range items {
		query, args := b.Insert(itemTable).
			Columns(itemColumns...).
			Values(it.ID, it.Topic, it.Category, it.Weight, it.Difficulty, it.Prompt).
			OnConflict(
				entsql.ConflictColumns("id"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert item %q: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit item upsert: %w", err)
	}
	return nil
}

func (r *itemRepo) All(ctx context.Context) ([]LearningItem, error) {
	b := builder(r.dialect)
	query, args := b.Select(itemColumns...).
		From(b.Table(itemTable)).
		OrderBy(entsql.Asc("id")).
		Query()
	return r.selectItems(ctx, query, args)
}

func (r *itemRepo) ByCategory(ctx context.Context, category string) ([]LearningItem, error) {
	b := builder(r.dialect)
	query, args := b.Select(itemColumns...).
		From(b.Table(itemTable)).
		Where(entsql.EQ("category", category)).
		OrderBy(entsql.Asc("id")).
		Query()
	return r.selectItems(ctx, query, args)
}

func (r *itemRepo) Get(ctx context.Context, id string) (*LearningItem, error) {
	b := builder(r.dialect)
	query, args := b.Select(itemColumns...).
		From(b.Table(itemTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var row itemRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get item %q: %w", id, err)
	}
	it := row.item()
	return &it, nil
}

func (r *itemRepo) PutTopicWeights(ctx context.Context, weights []TopicWeight) error {
	if len(weights) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin topic weights: %w", err)
	}
	b := builder(r.dialect)
	for _, w := range weights {
		query, args := b.Insert(topicWeightTable).
			Columns("category", "topic", "weight").
			Values(w.Category, w.Topic, w.Weight).
			OnConflict(
				entsql.ConflictColumns("category", "topic"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("put weight for %s:%s: %w", w.Category, w.Topic, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit topic weights: %w", err)
	}
	return nil
}

func (r *itemRepo) TopicWeights(ctx context.Context) ([]TopicWeight, error) {
	b := builder(r.dialect)
	query, args := b.Select("category", "topic", "weight").
		From(b.Table(topicWeightTable)).
		OrderBy(entsql.Asc("category"), entsql.Asc("topic")).
		Query()

	var rows []topicWeightRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query topic weights: %w", err)
	}
	weights := make([]TopicWeight, len(rows))
	for i, row := range rows {
		weights[i] = TopicWeight(row)
	}
	return weights, nil
}

func (r *itemRepo) selectItems(ctx context.Context, query string, args []any) ([]LearningItem, error) {
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items := make([]LearningItem, len(rows))
	for i, row := range rows {
		items[i] = row.item()
	}
	return items, nil
}
