package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/cramkit/internal/store"
)

// Mode names the kind of study session.
type Mode string

const (
	ModeReview Mode = "review"
	ModeWeak   Mode = "weak"
	ModeQuiz   Mode = "quiz"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeReview, ModeWeak, ModeQuiz:
		return m, nil
	default:
		return "", store.InvalidInput("mode", "unknown session mode %q", s)
	}
}

// Recorder applies an answer to an item's schedule.
type Recorder interface {
	RecordOutcome(ctx context.Context, itemID string, correct bool, confidence int) (*store.ProgressRecord, error)
}

// Tracker manages the lifecycle of study sessions.
type Tracker struct {
	sessions store.SessionRepo
	recorder Recorder
	now      func() time.Time
	newID    func() string
	log      logrus.FieldLogger
}

// NewTracker creates a Tracker. Answers are forwarded to recorder.
func NewTracker(sessions store.SessionRepo, recorder Recorder, opts ...Option) *Tracker {
	o := buildOptions(opts)
	if o.newID == nil {
		o.newID = func() string { return uuid.New().String() }
	}
	return &Tracker{
		sessions: sessions,
		recorder: recorder,
		now:      o.now,
		newID:    o.newID,
		log:      o.log,
	}
}

// Start opens a new session. category and topic are optional scope.
func (t *Tracker) Start(ctx context.Context, mode Mode, category, topic string) (*store.StudySession, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	sess := &store.StudySession{
		ID:        t.newID(),
		StartedAt: t.now(),
		Mode:      string(mode),
		Category:  category,
		Topic:     topic,
	}
	if err := t.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	t.log.WithFields(logrus.Fields{"session": sess.ID, "mode": mode}).Info("session started")
	return sess, nil
}

// RecordAnswer records an answer given during an open session and updates
// the session's counters.
func (t *Tracker) RecordAnswer(ctx context.Context, sessionID, itemID string, correct bool, confidence int) (*store.ProgressRecord, error) {
	sess, err := t.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Open() {
		return nil, store.InvalidInput("session", "session %s already ended", sessionID)
	}

	rec, err := t.recorder.RecordOutcome(ctx, itemID, correct, confidence)
	if err != nil {
		return nil, err
	}

	sess.Attempted++
	if correct {
		sess.Correct++
	}
	if err := t.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return rec, nil
}

// End stamps the session's end time.
func (t *Tracker) End(ctx context.Context, sessionID string) (*store.StudySession, error) {
	sess, err := t.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Open() {
		return nil, store.InvalidInput("session", "session %s already ended", sessionID)
	}

	end := t.now()
	sess.EndedAt = &end
	if err := t.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	t.log.WithFields(logrus.Fields{
		"session":   sess.ID,
		"attempted": sess.Attempted,
		"correct":   sess.Correct,
	}).Info("session ended")
	return sess, nil
}
