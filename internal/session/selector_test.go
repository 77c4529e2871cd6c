package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/cramkit/internal/catalog"
	"github.com/abhisek/cramkit/internal/store"
	"github.com/abhisek/cramkit/internal/store/memstore"
)

var now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func mustCatalog(t *testing.T, items ...store.LearningItem) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(items, nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func putRecords(t *testing.T, mem *memstore.Store, recs ...store.ProgressRecord) {
	t.Helper()
	for i := range recs {
		if err := mem.ProgressRepo().Put(context.Background(), &recs[i]); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
}

func ids(items []store.LearningItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func due(id string) store.ProgressRecord {
	return store.ProgressRecord{ItemID: id, CorrectStreak: 1, TotalAttempts: 1, LastReviewedAt: now.Add(-48 * time.Hour), NextReviewAt: now.Add(-time.Hour)}
}

func notDue(id string) store.ProgressRecord {
	return store.ProgressRecord{ItemID: id, CorrectStreak: 2, TotalAttempts: 2, LastReviewedAt: now, NextReviewAt: now.Add(96 * time.Hour)}
}

func TestSelectForReview_Ordering(t *testing.T) {
	cat := mustCatalog(t,
		store.LearningItem{ID: "heavy-notdue", Topic: "t", Category: "c", Weight: 10},
		store.LearningItem{ID: "light-new", Topic: "t", Category: "c", Weight: 1},
		store.LearningItem{ID: "heavy-due", Topic: "t", Category: "c", Weight: 9},
		store.LearningItem{ID: "light-due", Topic: "t", Category: "c", Weight: 2},
		store.LearningItem{ID: "heavy-new", Topic: "t", Category: "c", Weight: 8},
	)
	mem := memstore.New()
	putRecords(t, mem, notDue("heavy-notdue"), due("heavy-due"), due("light-due"))

	sel := NewSelector(mem.ProgressRepo(), cat, WithClock(fixedClock))
	got, err := sel.SelectForReview(context.Background(), Filter{}, DefaultLimit)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"heavy-new", "light-new", "heavy-due", "light-due", "heavy-notdue"}
	if !equalIDs(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
}

func TestSelectForReview_UnattemptedBeatsWeight(t *testing.T) {
	cat := mustCatalog(t,
		store.LearningItem{ID: "a", Topic: "t", Category: "c", Weight: 100},
		store.LearningItem{ID: "b", Topic: "t", Category: "c", Weight: 1},
	)
	mem := memstore.New()
	putRecords(t, mem, due("a"))

	sel := NewSelector(mem.ProgressRepo(), cat, WithClock(fixedClock))
	got, err := sel.SelectForReview(context.Background(), Filter{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"b"}) {
		t.Errorf("got %v, want [b]", ids(got))
	}
}

func TestSelectForReview_StableForEqualKeys(t *testing.T) {
	cat := mustCatalog(t,
		store.LearningItem{ID: "z", Topic: "t", Category: "c", Weight: 5},
		store.LearningItem{ID: "m", Topic: "t", Category: "c", Weight: 5},
		store.LearningItem{ID: "a", Topic: "t", Category: "c", Weight: 5},
	)
	sel := NewSelector(memstore.New().ProgressRepo(), cat, WithClock(fixedClock))
	got, err := sel.SelectForReview(context.Background(), Filter{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"z", "m", "a"}) {
		t.Errorf("got %v, want catalog order [z m a]", ids(got))
	}
}

func TestSelectForReview_LimitAndDuplicates(t *testing.T) {
	var items []store.LearningItem
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		items = append(items, store.LearningItem{ID: id, Topic: "t", Category: "c", Weight: 1})
	}
	cat := mustCatalog(t, items...)
	mem := memstore.New()
	putRecords(t, mem, due("b"), notDue("d"))
	sel := NewSelector(mem.ProgressRepo(), cat, WithClock(fixedClock))

	for limit := 1; limit <= 8; limit++ {
		got, err := sel.SelectForReview(context.Background(), Filter{}, limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) > limit {
			t.Errorf("limit %d: got %d items", limit, len(got))
		}
		if limit >= len(items) && len(got) != len(items) {
			t.Errorf("limit %d: expected whole pool, got %d", limit, len(got))
		}
		seen := map[string]bool{}
		for _, it := range got {
			if seen[it.ID] {
				t.Errorf("limit %d: duplicate %s", limit, it.ID)
			}
			seen[it.ID] = true
		}
	}
}

func TestSelectForReview_Filter(t *testing.T) {
	cat := mustCatalog(t,
		store.LearningItem{ID: "p1", Topic: "renal", Category: "pharm", Weight: 1},
		store.LearningItem{ID: "p2", Topic: "cardiac", Category: "pharm", Weight: 1},
		store.LearningItem{ID: "n1", Topic: "gait", Category: "neuro", Weight: 1},
	)
	sel := NewSelector(memstore.New().ProgressRepo(), cat, WithClock(fixedClock))
	ctx := context.Background()

	got, err := sel.SelectForReview(ctx, Filter{Category: "pharm"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"p1", "p2"}) {
		t.Errorf("category filter = %v", ids(got))
	}

	got, err = sel.SelectForReview(ctx, Filter{Category: "pharm", Topic: "cardiac"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"p2"}) {
		t.Errorf("topic filter = %v", ids(got))
	}

	got, err = sel.SelectForReview(ctx, Filter{Category: "derm"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("empty pool = %v, want none", ids(got))
	}
}

func TestSelectForReview_InvalidLimit(t *testing.T) {
	sel := NewSelector(memstore.New().ProgressRepo(), mustCatalog(t))
	for _, limit := range []int{0, -3} {
		if _, err := sel.SelectForReview(context.Background(), Filter{}, limit); !errors.Is(err, store.ErrInvalidInput) {
			t.Errorf("limit %d: expected ErrInvalidInput, got %v", limit, err)
		}
	}
}

func TestReviewPriority_KeyFunctions(t *testing.T) {
	newItem := candidate{item: store.LearningItem{Weight: 1}}
	dueItem := candidate{item: store.LearningItem{Weight: 5}, attempted: true, due: true}
	laterItem := candidate{item: store.LearningItem{Weight: 9}, attempted: true}

	if unattemptedFirst(newItem, dueItem) >= 0 {
		t.Error("unattempted item must sort before attempted one")
	}
	if dueFirst(dueItem, laterItem) >= 0 {
		t.Error("due item must sort before not-due one")
	}
	if heavierFirst(laterItem, dueItem) >= 0 {
		t.Error("heavier item must sort first")
	}
	if reviewPriority(newItem, newItem) != 0 {
		t.Error("equal candidates must compare equal")
	}
}

func TestSelectWeak(t *testing.T) {
	cat := mustCatalog(t,
		store.LearningItem{ID: "A", Topic: "t", Category: "c", Weight: 1},
		store.LearningItem{ID: "B", Topic: "t", Category: "c", Weight: 1},
		store.LearningItem{ID: "C", Topic: "t", Category: "c", Weight: 1},
		store.LearningItem{ID: "D", Topic: "t", Category: "c", Weight: 1},
	)
	mem := memstore.New()
	putRecords(t, mem,
		store.ProgressRecord{ItemID: "B", IncorrectCount: 1, CorrectStreak: 1, NextReviewAt: now},
		store.ProgressRecord{ItemID: "A", IncorrectCount: 3, CorrectStreak: 0, NextReviewAt: now},
		store.ProgressRecord{ItemID: "C", IncorrectCount: 5, CorrectStreak: 2, NextReviewAt: now}, // recovered
		store.ProgressRecord{ItemID: "D", IncorrectCount: 0, CorrectStreak: 0, NextReviewAt: now}, // no mistakes
		store.ProgressRecord{ItemID: "gone", IncorrectCount: 9, NextReviewAt: now},                 // not in catalog
	)

	sel := NewSelector(mem.ProgressRepo(), cat, WithClock(fixedClock))
	got, err := sel.SelectWeak(context.Background(), DefaultLimit)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"A", "B"}) {
		t.Errorf("weak = %v, want [A B]", ids(got))
	}

	got, err = sel.SelectWeak(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"A"}) {
		t.Errorf("weak limit 1 = %v, want [A]", ids(got))
	}
}

func TestSelectWeak_StoreError(t *testing.T) {
	mem := memstore.New()
	boom := errors.New("boom")
	mem.Err = boom

	sel := NewSelector(mem.ProgressRepo(), mustCatalog(t))
	if _, err := sel.SelectWeak(context.Background(), 5); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
