package spacedrep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/cramkit/internal/catalog"
	"github.com/abhisek/cramkit/internal/store"
	"github.com/abhisek/cramkit/internal/store/memstore"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// clock is a controllable time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestScheduler(opts ...Option) (*Scheduler, *memstore.Store, *clock) {
	mem := memstore.New()
	clk := &clock{now: t0}
	opts = append([]Option{WithClock(clk.Now)}, opts...)
	return NewScheduler(mem.ProgressRepo(), opts...), mem, clk
}

func TestRecordOutcome_ConsecutiveCorrect(t *testing.T) {
	ctx := context.Background()

	// Day multiples after n correct answers; n=1 is a first answer (1 day).
	wantDays := map[int]int64{1: 1, 2: 4, 3: 8, 4: 16, 5: 30, 6: 30, 7: 30}

	for n := 1; n <= 7; n++ {
		s, _, clk := newTestScheduler()
		var rec *store.ProgressRecord
		for i := 0; i < n; i++ {
			var err error
			rec, err = s.RecordOutcome(ctx, "q1", true, 4)
			if err != nil {
				t.Fatalf("n=%d answer %d: %v", n, i, err)
			}
			clk.Advance(rec.NextReviewAt.Sub(clk.Now()))
		}

		if rec.CorrectStreak != n {
			t.Errorf("n=%d: CorrectStreak = %d", n, rec.CorrectStreak)
		}
		got := rec.NextReviewAt.Sub(rec.LastReviewedAt).Milliseconds()
		if want := 86_400_000 * wantDays[n]; got != want {
			t.Errorf("n=%d: interval = %dms, want %dms", n, got, want)
		}
	}
}

func TestRecordOutcome_StreakOfFiveIsThirtyDays(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler()

	var rec *store.ProgressRecord
	for i := 0; i < 5; i++ {
		var err error
		rec, err = s.RecordOutcome(ctx, "q1", true, 3)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	if got := rec.NextReviewAt.Sub(rec.LastReviewedAt); got != 30*Day {
		t.Errorf("interval = %v, want 30 days", got)
	}
}

func TestRecordOutcome_WrongAfterStreak(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestScheduler()

	for i := 0; i < 4; i++ {
		if _, err := s.RecordOutcome(ctx, "q1", true, 3); err != nil {
			t.Fatal(err)
		}
	}
	clk.Advance(time.Hour)

	rec, err := s.RecordOutcome(ctx, "q1", false, 2)
	if err != nil {
		t.Fatal(err)
	}
	if rec.CorrectStreak != 0 {
		t.Errorf("CorrectStreak = %d, want 0", rec.CorrectStreak)
	}
	if rec.IncorrectCount != 1 {
		t.Errorf("IncorrectCount = %d, want 1", rec.IncorrectCount)
	}
	if rec.TotalAttempts != 5 {
		t.Errorf("TotalAttempts = %d, want 5", rec.TotalAttempts)
	}
	if got := rec.NextReviewAt.Sub(clk.Now()); got != Day {
		t.Errorf("interval = %v, want 1 day (not the new-item retry)", got)
	}
	if !rec.LastReviewedAt.Equal(clk.Now()) {
		t.Errorf("LastReviewedAt = %v, want %v", rec.LastReviewedAt, clk.Now())
	}
}

func TestRecordOutcome_FirstAnswerWrong(t *testing.T) {
	s, mem, _ := newTestScheduler()

	rec, err := s.RecordOutcome(context.Background(), "q1", false, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.NextReviewAt.Sub(t0); got != NewItemRetryInterval {
		t.Errorf("interval = %v, want %v", got, NewItemRetryInterval)
	}

	stored, err := mem.ProgressRepo().Get(context.Background(), "q1")
	if err != nil || stored == nil {
		t.Fatalf("stored record missing: %v", err)
	}
	if stored.IncorrectCount != 1 || stored.TotalAttempts != 1 || stored.Confidence != 1 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestRecordOutcome_NextAlwaysAfterLast(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestScheduler()

	answers := []bool{true, false, false, true, true, true, false, true, true, true, true, true, true}
	for i, correct := range answers {
		rec, err := s.RecordOutcome(ctx, "q1", correct, 3)
		if err != nil {
			t.Fatal(err)
		}
		if !rec.NextReviewAt.After(rec.LastReviewedAt) {
			t.Errorf("answer %d: NextReviewAt %v not after LastReviewedAt %v", i, rec.NextReviewAt, rec.LastReviewedAt)
		}
		if rec.TotalAttempts != i+1 {
			t.Errorf("answer %d: TotalAttempts = %d", i, rec.TotalAttempts)
		}
		clk.Advance(3 * time.Hour)
	}
}

func TestRecordOutcome_InvalidInput(t *testing.T) {
	cat, err := catalog.New([]store.LearningItem{{ID: "known", Topic: "t", Category: "c", Weight: 1}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, mem, _ := newTestScheduler(WithCatalog(cat))

	tests := []struct {
		name       string
		itemID     string
		confidence int
	}{
		{"empty id", "", 3},
		{"confidence too low", "known", 0},
		{"confidence too high", "known", 6},
		{"unknown item", "unknown", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecordOutcome(context.Background(), tt.itemID, true, tt.confidence)
			if !errors.Is(err, store.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	all, _ := mem.ProgressRepo().All(context.Background())
	if len(all) != 0 {
		t.Errorf("rejected input must not be stored, got %d records", len(all))
	}
}

func TestRecordOutcome_StoreErrorPropagates(t *testing.T) {
	s, mem, _ := newTestScheduler()
	boom := errors.New("disk on fire")
	mem.Err = boom

	_, err := s.RecordOutcome(context.Background(), "q1", true, 3)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestDue(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestScheduler()

	if _, err := s.RecordOutcome(ctx, "a", false, 3); err != nil { // due in 4h
		t.Fatal(err)
	}
	if _, err := s.RecordOutcome(ctx, "b", true, 3); err != nil { // due in 24h
		t.Fatal(err)
	}

	clk.Advance(5 * time.Hour)
	due, err := s.Due(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].ItemID != "a" {
		t.Errorf("due = %+v, want [a]", due)
	}
}
