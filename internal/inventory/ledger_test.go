package inventory

import (
	"testing"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

var testNow = time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return NewLedger(log, WithClock(func() time.Time { return testNow }))
}

func daysFromNow(d int) *time.Time {
	t := testNow.AddDate(0, 0, d)
	return &t
}

func TestAddCoercesBadInput(t *testing.T) {
	l := testLedger(t)

	tests := []struct {
		name     string
		item     domain.InventoryItem
		wantName string
		wantQty  int
	}{
		{"normal", domain.InventoryItem{Name: "milk", Quantity: 2}, "milk", 2},
		{"empty name", domain.InventoryItem{Name: "   ", Quantity: 1}, "Unnamed item", 1},
		{"zero quantity", domain.InventoryItem{Name: "eggs"}, "eggs", 1},
		{"negative quantity", domain.InventoryItem{Name: "butter", Quantity: -4}, "butter", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Add(tt.item)
			if got.ID == "" {
				t.Fatal("no id assigned")
			}
			if got.Name != tt.wantName {
				t.Fatalf("name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Quantity != tt.wantQty {
				t.Fatalf("quantity = %d, want %d", got.Quantity, tt.wantQty)
			}
			if !got.AddedAt.Equal(testNow) {
				t.Fatalf("addedAt = %v", got.AddedAt)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{" 12 ", 12},
		{"0", 1},
		{"-2", 1},
		{"lots", 1},
		{"", 1},
	}
	for _, tt := range tests {
		if got := ParseQuantity(tt.in); got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	l := testLedger(t)
	item := l.Add(domain.InventoryItem{Name: "milk"})

	l.Remove(item.ID)
	if _, ok := l.Get(item.ID); ok {
		t.Fatal("item still present")
	}
	// Unknown id is a quiet no-op.
	l.Remove(item.ID)
	l.Remove("never-existed")
}

func TestSetQuantityClampsAtZero(t *testing.T) {
	l := testLedger(t)
	item := l.Add(domain.InventoryItem{Name: "eggs", Quantity: 6})

	l.SetQuantity(item.ID, -3)
	got, _ := l.Get(item.ID)
	if got.Quantity != 0 {
		t.Fatalf("quantity = %d, want 0", got.Quantity)
	}
}

func TestExpiringWithin(t *testing.T) {
	l := testLedger(t)

	l.Add(domain.InventoryItem{Name: "fresh milk", ExpiresAt: daysFromNow(2)})
	l.Add(domain.InventoryItem{Name: "old yogurt", ExpiresAt: daysFromNow(-1)})
	l.Add(domain.InventoryItem{Name: "long-life rice"}) // no expiry tracked
	l.Add(domain.InventoryItem{Name: "frozen peas", ExpiresAt: daysFromNow(60)})
	l.Add(domain.InventoryItem{Name: "chicken", ExpiresAt: daysFromNow(4)})

	got := l.ExpiringWithin(5)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	// Sorted soonest first; already-expired items lead the list.
	wantOrder := []string{"old yogurt", "fresh milk", "chicken"}
	for i, want := range wantOrder {
		if got[i].Name != want {
			t.Fatalf("position %d = %q, want %q", i, got[i].Name, want)
		}
	}
}

func TestAllIsSorted(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := testNow
	l := NewLedger(log, WithClock(func() time.Time { return clock }))

	l.Add(domain.InventoryItem{Name: "b"})
	clock = clock.Add(time.Minute)
	l.Add(domain.InventoryItem{Name: "a"})

	got := l.All()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Fatalf("order = %v", []string{got[0].Name, got[1].Name})
	}
}

func TestByLocationAndCategory(t *testing.T) {
	l := testLedger(t)
	l.Add(domain.InventoryItem{Name: "milk", Category: domain.CategoryDairy, Location: domain.LocationFridge})
	l.Add(domain.InventoryItem{Name: "rice", Category: domain.CategoryGrains, Location: domain.LocationPantry})

	if got := l.ByLocation(domain.LocationFridge); len(got) != 1 || got[0].Name != "milk" {
		t.Fatalf("fridge = %+v", got)
	}
	if got := l.ByCategory(domain.CategoryGrains); len(got) != 1 || got[0].Name != "rice" {
		t.Fatalf("grains = %+v", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	l := testLedger(t)
	l.Add(domain.InventoryItem{Name: "milk"})
	snap := l.Snapshot()

	other := testLedger(t)
	other.Restore(snap)
	if len(other.All()) != 1 || other.All()[0].Name != "milk" {
		t.Fatalf("restored = %+v", other.All())
	}

	// Items saved without ids get fresh ones.
	other.Restore([]domain.InventoryItem{{Name: "legacy"}})
	got := other.All()
	if len(got) != 1 || got[0].ID == "" {
		t.Fatalf("restored legacy item = %+v", got)
	}
}
