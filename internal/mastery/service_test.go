package mastery

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/cramkit/internal/store"
	"github.com/abhisek/cramkit/internal/store/memstore"
)

var now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, mem *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	records := []store.ProgressRecord{
		{ItemID: "r1", CorrectStreak: 3, NextReviewAt: now.Add(-time.Hour)},
		{ItemID: "r2", CorrectStreak: 1, IncorrectCount: 1, NextReviewAt: now.Add(time.Hour)},
		{ItemID: "c1", CorrectStreak: 0, IncorrectCount: 2, NextReviewAt: now},
	}
	for i := range records {
		if err := mem.ProgressRepo().Put(ctx, &records[i]); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 7; i++ {
		start := now.Add(time.Duration(i-10) * time.Hour)
		end := start.Add(10 * time.Minute)
		sess := store.StudySession{ID: fmt.Sprintf("s%d", i), StartedAt: start, EndedAt: &end, Mode: "review"}
		if err := mem.SessionRepo().Save(ctx, &sess); err != nil {
			t.Fatal(err)
		}
	}
}

func TestService_Dashboard(t *testing.T) {
	mem := memstore.New()
	seed(t, mem)
	cat := testCatalog(t)
	svc := NewService(mem.ProgressRepo(), mem.SessionRepo(), cat, func() time.Time { return now })

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if d.TotalItems != 5 || d.Attempted != 3 {
		t.Errorf("items = %d attempted = %d", d.TotalItems, d.Attempted)
	}
	if d.Mastered != 1 {
		t.Errorf("Mastered = %d, want 1", d.Mastered)
	}
	if d.Due != 2 {
		t.Errorf("Due = %d, want 2", d.Due)
	}
	if d.States[StateNew] != 2 || d.States[StateWeak] != 2 || d.States[StateMastered] != 1 {
		t.Errorf("States = %v", d.States)
	}
	if !approx(d.OverallAccuracy, 66.67) {
		t.Errorf("OverallAccuracy = %f", d.OverallAccuracy)
	}
	// renal: (3+1)/2 = 200%, weight 2; cardiac: 0%, weight 4 -> 400/6
	if !approx(d.Readiness, 66.67) {
		t.Errorf("Readiness = %f, want 66.67", d.Readiness)
	}
	if len(d.Topics) != 3 {
		t.Errorf("Topics = %d, want 3", len(d.Topics))
	}
	if d.StudyTime != 70*time.Minute {
		t.Errorf("StudyTime = %v, want 70m", d.StudyTime)
	}
	if d.Sessions != 7 || len(d.Recent) != RecentSessions {
		t.Fatalf("sessions = %d recent = %d", d.Sessions, len(d.Recent))
	}
	if d.Recent[0].ID != "s6" {
		t.Errorf("Recent[0] = %s, want newest s6", d.Recent[0].ID)
	}
}

func TestService_Queries(t *testing.T) {
	mem := memstore.New()
	seed(t, mem)
	svc := NewService(mem.ProgressRepo(), mem.SessionRepo(), testCatalog(t), nil)
	ctx := context.Background()

	stats, err := svc.TopicStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats["pharm:renal"].Correct != 4 {
		t.Errorf("renal correct = %d, want 4", stats["pharm:renal"].Correct)
	}

	r, err := svc.Readiness(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r, 66.67) {
		t.Errorf("Readiness = %f", r)
	}

	acc, err := svc.OverallAccuracy(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(acc, 66.67) {
		t.Errorf("OverallAccuracy = %f", acc)
	}
}

func TestService_DashboardStoreError(t *testing.T) {
	mem := memstore.New()
	boom := errors.New("boom")
	mem.Err = boom
	svc := NewService(mem.ProgressRepo(), mem.SessionRepo(), testCatalog(t), nil)

	if _, err := svc.Dashboard(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
