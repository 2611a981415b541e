package source

import "time"

// Entry is one tracking record as exported from the app store.
type Entry struct {
	ID            string
	Line          int // line number in the export file
	Category      string
	Deleted       bool
	RawText       *string
	RawValue      *float64
	RawTags       *string
	Timestamp     *time.Time
	MealItems     []MealItem
	MedicationRef *Medication
}

type MealItem struct {
	ID       string
	Name     string
	FoodTags []FoodTag
}

type FoodTag struct {
	ID   int64
	Name string
}

type Medication struct {
	ID   *int64
	Name *string
}
