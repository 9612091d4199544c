package models

import "time"

// Weekday indexes days Monday=0 through Sunday=6, matching the ordering used
// by schedule templates and the weekly grid.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayLabels = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Label returns the display name of the weekday.
func (w Weekday) Label() string {
	if w < Monday || w > Sunday {
		return ""
	}
	return weekdayLabels[w]
}

// Valid reports whether the weekday is inside the Monday..Sunday range.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// WeekdayOf converts a calendar date to the Monday-based weekday index.
// time.Weekday counts Sunday as 0.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// WeekRange returns the Monday and Sunday of the week containing date.
func WeekRange(date time.Time) (time.Time, time.Time) {
	start := date.AddDate(0, 0, -int(WeekdayOf(date)))
	return start, start.AddDate(0, 0, 6)
}
