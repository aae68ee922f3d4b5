// Package ical exports the parsed menu as an iCalendar feed so phones and
// calendar apps can subscribe to the dining schedule.
package ical

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"menuboard/internal/menu"
)

// Export serializes meals as a VCALENDAR, one VEVENT per meal. The event
// description carries the station lines as plain text, one per line, with
// display markup stripped.
func Export(meals []menu.Meal) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	now := time.Now()
	for _, m := range meals {
		ev := cal.AddEvent(eventUID(m))
		ev.SetDtStampTime(now)
		ev.SetStartAt(m.Start)
		ev.SetEndAt(m.End)
		ev.SetSummary(m.Title)
		ev.SetDescription(plainItems(m.Items))
	}

	return cal.Serialize()
}

// eventUID derives a stable per-meal UID so re-exports update events
// in place instead of duplicating them.
func eventUID(m menu.Meal) string {
	return m.Start.Format("20060102") + "-" + strings.ToLower(m.Title) + "@menuboard"
}

func plainItems(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, menu.StripTags(it))
	}
	return strings.Join(lines, "\n")
}
