package plan

import (
	"errors"
	"testing"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

var testNow = time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *Store {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return NewStore(log, WithClock(func() time.Time { return testNow }))
}

func TestAddAndComplete(t *testing.T) {
	s := testStore(t)

	entry := s.Add("shakshuka", testNow)
	if entry.ID == "" {
		t.Fatal("no id assigned")
	}
	if entry.Completed {
		t.Fatal("new entry should be incomplete")
	}

	rating := 5
	if err := s.Complete(entry.ID, &rating, "great"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, ok := s.Get(entry.ID)
	if !ok {
		t.Fatal("entry missing")
	}
	if !got.Completed || got.Rating == nil || *got.Rating != 5 || got.Notes != "great" {
		t.Fatalf("entry = %+v", got)
	}

	if err := s.Complete("nope", nil, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpcoming(t *testing.T) {
	s := testStore(t)

	past := s.Add("old", testNow.AddDate(0, 0, -2))
	today := s.Add("today", testNow)
	tomorrow := s.Add("tomorrow", testNow.AddDate(0, 0, 1))
	done := s.Add("done", testNow.AddDate(0, 0, 2))
	s.Complete(done.ID, nil, "")

	got := s.Upcoming(testNow)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].ID != today.ID || got[1].ID != tomorrow.ID {
		t.Fatalf("order = %s, %s", got[0].RecipeID, got[1].RecipeID)
	}
	_ = past
}

func TestCompletedCount(t *testing.T) {
	s := testStore(t)
	a := s.Add("a", testNow)
	s.Add("b", testNow)
	s.Complete(a.ID, nil, "")

	if got := s.CompletedCount(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := testStore(t)
	s.Add("a", testNow)

	other := testStore(t)
	other.Restore(s.Snapshot())
	if len(other.All()) != 1 {
		t.Fatalf("restored %d entries", len(other.All()))
	}
}
