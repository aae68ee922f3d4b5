package menu

import (
	"errors"
	"fmt"
	"strings"
	"time"

	appLog "menuboard/internal/log"
)

// Meal titles the board shows. Breakfast is deliberately absent: the board
// only surfaces its serving time, via BreakfastTime.
var boardTitles = map[string]bool{
	"Brunch": true,
	"Lunch":  true,
	"Dinner": true,
}

const (
	clockFormat = "3:04"
	dateFormat  = "Mon 1/2"
)

// AssembleMeal derives one presentation-ready Meal from one feed record.
// Feed timestamps are read as wall-clock times in loc, ignoring whatever
// offset the feed embeds.
func AssembleMeal(raw RawMeal, loc *time.Location) (Meal, error) {
	start, err := parseFeedTime(raw.StartDate, loc)
	if err != nil {
		return Meal{}, fmt.Errorf("bad startdate %q: %w", raw.StartDate, err)
	}
	end, err := parseFeedTime(raw.EndDate, loc)
	if err != nil {
		return Meal{}, fmt.Errorf("bad enddate %q: %w", raw.EndDate, err)
	}

	return Meal{
		Title:     raw.Title,
		Start:     start,
		End:       end,
		ShortTime: start.Format(clockFormat) + " to " + end.Format(clockFormat),
		ShortDate: start.Format(dateFormat),
		Items:     ParseDescription(raw.Description),
	}, nil
}

// AssembleMeals assembles a batch of feed records and filters it down to
// the meals the board shows: recognized titles with at least one station
// line. Records that fail to assemble are logged and skipped.
func AssembleMeals(raws []RawMeal, loc *time.Location) []Meal {
	meals := make([]Meal, 0, len(raws))
	for _, raw := range raws {
		if !boardTitles[raw.Title] {
			continue
		}
		m, err := AssembleMeal(raw, loc)
		if err != nil {
			appLog.Error("meal assembly failed", err, "title", raw.Title)
			continue
		}
		if len(m.Items) == 0 {
			continue
		}
		meals = append(meals, m)
	}
	return meals
}

// BreakfastTime returns the formatted serving time of the first Breakfast
// record in the batch, or "" if there is none.
func BreakfastTime(raws []RawMeal, loc *time.Location) string {
	for _, raw := range raws {
		if raw.Title != "Breakfast" {
			continue
		}
		start, err := parseFeedTime(raw.StartDate, loc)
		if err != nil {
			continue
		}
		end, err := parseFeedTime(raw.EndDate, loc)
		if err != nil {
			continue
		}
		return start.Format(clockFormat) + " to " + end.Format(clockFormat)
	}
	return ""
}

// GroupByDay folds meals into per-date lunch/dinner buckets, preserving
// first-seen date order. Brunch and Lunch both land in the lunch slot, so
// whichever comes later in the batch wins the slot.
func GroupByDay(meals []Meal) []Day {
	days := make([]Day, 0, len(meals))
	index := make(map[string]int)

	for i := range meals {
		m := meals[i]
		di, ok := index[m.ShortDate]
		if !ok {
			di = len(days)
			index[m.ShortDate] = di
			days = append(days, Day{ShortDate: m.ShortDate})
		}
		switch m.Title {
		case "Brunch", "Lunch":
			days[di].Lunch = &m
		case "Dinner":
			days[di].Dinner = &m
		}
	}
	return days
}

// parseFeedTime parses the feed's ISO-ish timestamp as wall-clock time in
// loc. The feed sometimes embeds an offset and sometimes does not; either
// way the dining hall runs on loc time, so only the local fields count.
func parseFeedTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	// Drop any trailing zone designator by keeping the local fields only.
	if len(s) > 19 {
		s = s[:19]
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
