package domain

import (
	"time"
)

// Category classifies inventory items. The set is closed; anything the
// user types that doesn't match falls back to CategoryOther.
type Category string

const (
	CategoryProtein    Category = "protein"
	CategoryDairy      Category = "dairy"
	CategoryProduce    Category = "produce"
	CategoryGrains     Category = "grains"
	CategoryCanned     Category = "canned"
	CategoryCondiments Category = "condiments"
	CategoryFrozen     Category = "frozen"
	CategorySnacks     Category = "snacks"
	CategoryBeverages  Category = "beverages"
	CategoryOther      Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryProtein, CategoryDairy, CategoryProduce, CategoryGrains,
	CategoryCanned, CategoryCondiments, CategoryFrozen, CategorySnacks,
	CategoryBeverages, CategoryOther,
}

// ParseCategory maps a raw string to a known category, defaulting to other.
func ParseCategory(s string) Category {
	c := Category(s)
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

// Location is where an item is stored.
type Location string

const (
	LocationFridge  Location = "fridge"
	LocationFreezer Location = "freezer"
	LocationPantry  Location = "pantry"
)

// ParseLocation maps a raw string to a storage location, defaulting to pantry.
func ParseLocation(s string) Location {
	switch Location(s) {
	case LocationFridge:
		return LocationFridge
	case LocationFreezer:
		return LocationFreezer
	}
	return LocationPantry
}

// InventoryItem is a perishable (or not) item in the household inventory.
type InventoryItem struct {
	ID        string
	Name      string
	Category  Category
	Quantity  int // always >= 0
	Unit      string
	Location  Location
	ExpiresAt *time.Time // nil means no expiry tracked
	AddedAt   time.Time
}

// DaysUntilExpiry returns whole days until the item expires, and whether
// an expiry is tracked at all. Items already expired return negative days.
func (i InventoryItem) DaysUntilExpiry(now time.Time) (int, bool) {
	if i.ExpiresAt == nil {
		return 0, false
	}
	return int(i.ExpiresAt.Sub(now).Hours() / 24), true
}
