package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

var progressColumns = []string{
	"item_id",
	"last_reviewed_at",
	"correct_streak",
	"incorrect_count",
	"total_attempts",
	"confidence",
	"next_review_at",
}

// progressRow is the persisted form of a ProgressRecord. Times are Unix milliseconds.
type progressRow struct {
	ItemID         string `db:"item_id"`
	LastReviewedAt int64  `db:"last_reviewed_at"`
	CorrectStreak  int    `db:"correct_streak"`
	IncorrectCount int    `db:"incorrect_count"`
	TotalAttempts  int    `db:"total_attempts"`
	Confidence     int    `db:"confidence"`
	NextReviewAt   int64  `db:"next_review_at"`
}

func (r progressRow) record() ProgressRecord {
	return ProgressRecord{
		ItemID:         r.ItemID,
		LastReviewedAt: time.UnixMilli(r.LastReviewedAt).UTC(),
		CorrectStreak:  r.CorrectStreak,
		IncorrectCount: r.IncorrectCount,
		TotalAttempts:  r.TotalAttempts,
		Confidence:     r.Confidence,
		NextReviewAt:   time.UnixMilli(r.NextReviewAt).UTC(),
	}
}

// progressRepo implements ProgressRepo on top of sqlx with queries built by ent.
type progressRepo struct {
	db      *sqlx.DB
	dialect string
}

func (r *progressRepo) Get(ctx context.Context, itemID string) (*ProgressRecord, error) {
	b := builder(r.dialect)
	query, args := b.Select(progressColumns...).
		From(b.Table(progressTable)).
		Where(entsql.EQ("item_id", itemID)).
		Query()

	var row progressRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get progress %q: %w", itemID, err)
	}
	rec := row.record()
	return &rec, nil
}

func (r *progressRepo) Put(ctx context.Context, rec *ProgressRecord) error {
	query, args := builder(r.dialect).
		Insert(progressTable).
		Columns(progressColumns...).
		Values(
			rec.ItemID,
			rec.LastReviewedAt.UnixMilli(),
			rec.CorrectStreak,
			rec.IncorrectCount,
			rec.TotalAttempts,
			rec.Confidence,
			rec.NextReviewAt.UnixMilli(),
		).
		OnConflict(
			entsql.ConflictColumns("item_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put progress %q: %w", rec.ItemID, err)
	}
	return nil
}

func (r *progressRepo) All(ctx context.Context) ([]ProgressRecord, error) {
	b := builder(r.dialect)
	query, args := b.Select(progressColumns...).
		From(b.Table(progressTable)).
		OrderBy(entsql.Asc("item_id")).
		Query()
	return r.selectRecords(ctx, query, args)
}

func (r *progressRepo) DueBy(ctx context.Context, t time.Time) ([]ProgressRecord, error) {
	b := builder(r.dialect)
	query, args := b.Select(progressColumns...).
		From(b.Table(progressTable)).
		Where(entsql.LTE("next_review_at", t.UnixMilli())).
		OrderBy(entsql.Asc("item_id")).
		Query()
	return r.selectRecords(ctx, query, args)
}

func (r *progressRepo) selectRecords(ctx context.Context, query string, args []any) ([]ProgressRecord, error) {
	var rows []progressRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	records := make([]ProgressRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}
