// Package reminder periodically reports how many items are due for review.
package reminder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/cramkit/internal/store"
)

// DueSource returns the progress records that are due now.
type DueSource interface {
	Due(ctx context.Context) ([]store.ProgressRecord, error)
}

// Notifier delivers a reminder for count due items.
type Notifier interface {
	Notify(ctx context.Context, count int) error
}

// WriterNotifier prints reminders to W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, count int) error {
	_, err := fmt.Fprintf(n.W, "%s  %d item(s) due for review\n", time.Now().Format("15:04"), count)
	return err
}

// Reminder runs the due check on a fixed interval.
type Reminder struct {
	scheduler *gocron.Scheduler
	source    DueSource
	notifier  Notifier
	interval  time.Duration
	log       logrus.FieldLogger
}

// New creates a Reminder. It does nothing until Start is called.
func New(source DueSource, notifier Notifier, interval time.Duration, log logrus.FieldLogger) *Reminder {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		notifier:  notifier,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the check, runs it once immediately and returns.
func (r *Reminder) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return store.InvalidInput("interval", "must be positive, got %s", r.interval)
	}
	if _, err := r.scheduler.Every(r.interval).Do(r.run, ctx); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	r.scheduler.StartAsync()
	r.log.WithField("interval", r.interval.String()).Info("reminder started")
	return nil
}

// Stop terminates the schedule.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) run(ctx context.Context) {
	if _, err := r.Check(ctx); err != nil {
		r.log.WithError(err).Error("reminder check failed")
	}
}

// Check counts due items and notifies when there are any. It returns the
// number of due items.
func (r *Reminder) Check(ctx context.Context) (int, error) {
	due, err := r.source.Due(ctx)
	if err != nil {
		return 0, fmt.Errorf("query due items: %w", err)
	}
	if len(due) == 0 {
		r.log.Debug("nothing due")
		return 0, nil
	}
	if err := r.notifier.Notify(ctx, len(due)); err != nil {
		return len(due), fmt.Errorf("notify: %w", err)
	}
	r.log.WithField("due", len(due)).Info("reminder sent")
	return len(due), nil
}
