package menu

import "time"

// RawMeal is one record from the upstream dining feed: a meal title, a
// timestamp pair, and an opaque markup blob describing the serving
// stations. Records arrive one per (meal, day) pair and may be malformed.
type RawMeal struct {
	Title       string `json:"title"`
	StartDate   string `json:"startdate"`
	EndDate     string `json:"enddate"`
	Description string `json:"description"`
}

// Meal is the presentation-ready form of one RawMeal. Items holds one
// entry per serving station, shaped "<label markup>: <comma-joined
// dishes>", already decoded, tag-substituted, and in canonical station
// order.
type Meal struct {
	Title     string    `json:"title"`
	Start     time.Time `json:"startdate"`
	End       time.Time `json:"enddate"`
	ShortTime string    `json:"short_time"`
	ShortDate string    `json:"short_date"`
	Items     []string  `json:"items"`
}

// Day buckets the meals of a single date into the board's lunch/dinner
// shape. Brunch occupies the lunch slot.
type Day struct {
	ShortDate string `json:"short_date"`
	Lunch     *Meal  `json:"lunch,omitempty"`
	Dinner    *Meal  `json:"dinner,omitempty"`
}
