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

var sessionColumns = []string{
	"id",
	"started_at",
	"ended_at",
	"mode",
	"attempted",
	"correct",
	"category",
	"topic",
}

type sessionRow struct {
	ID        string `db:"id"`
	StartedAt int64  `db:"started_at"`
	EndedAt   *int64 `db:"ended_at"`
	Mode      string `db:"mode"`
	Attempted int    `db:"attempted"`
	Correct   int    `db:"correct"`
	Category  string `db:"category"`
	Topic     string `db:"topic"`
}

func (r sessionRow) session() StudySession {
	s := StudySession{
		ID:        r.ID,
		StartedAt: time.UnixMilli(r.StartedAt).UTC(),
		Mode:      r.Mode,
		Attempted: r.Attempted,
		Correct:   r.Correct,
		Category:  r.Category,
		Topic:     r.Topic,
	}
	if r.EndedAt != nil {
		t := time.UnixMilli(*r.EndedAt).UTC()
		s.EndedAt = &t
	}
	return s
}

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	db      *sqlx.DB
	dialect string
}

func (r *sessionRepo) Save(ctx context.Context, s *StudySession) error {
	var endedAt any
	if s.EndedAt != nil {
		endedAt = s.EndedAt.UnixMilli()
	}

	query, args := builder(r.dialect).
		Insert(sessionTable).
		Columns(sessionColumns...).
		Values(
			s.ID,
			s.StartedAt.UnixMilli(),
			endedAt,
			s.Mode,
			s.Attempted,
			s.Correct,
			s.Category,
			s.Topic,
		).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session %q: %w", s.ID, err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*StudySession, error) {
	b := builder(r.dialect)
	query, args := b.Select(sessionColumns...).
		From(b.Table(sessionTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var row sessionRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get session %q: %w", id, err)
	}
	s := row.session()
	return &s, nil
}

func (r *sessionRepo) All(ctx context.Context) ([]StudySession, error) {
	b := builder(r.dialect)
	query, args := b.Select(sessionColumns...).
		From(b.Table(sessionTable)).
		OrderBy(entsql.Asc("started_at"), entsql.Asc("id")).
		Query()

	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	sessions := make([]StudySession, len(rows))
	for i, row := range rows {
		sessions[i] = row.session()
	}
	return sessions, nil
}
