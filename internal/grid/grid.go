// Package grid turns flat template or schedule rows into a dense weekday by
// order-number structure so presentation code never branches on missing
// slots. The projection is a pure transform over in-memory rows.
package grid

import (
	"time"

	"github.com/uniflow/uniflow-api/internal/models"
)

// TemplateSlot is one cell of the template grid. Empty cells carry zero
// values for every field.
type TemplateSlot struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject"`
}

// TemplateDay groups the ten order slots of one weekday.
type TemplateDay struct {
	Weekday models.Weekday       `json:"weekday"`
	Label   string               `json:"label"`
	Slots   map[int]TemplateSlot `json:"slots"`
}

// TemplateWeek is the full 7x10 template grid indexed by weekday.
type TemplateWeek map[models.Weekday]TemplateDay

// ScheduleSlot is one cell of the live schedule grid. Marks carries the
// viewer-dependent aggregate supplied by the caller: for tutors the number
// of marks recorded for the session, for students their own mark.
type ScheduleSlot struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject"`
	Homework    string `json:"homework"`
	Marks       int    `json:"marks"`
}

// ScheduleDay groups the ten order slots of one concrete calendar day.
type ScheduleDay struct {
	Weekday models.Weekday       `json:"weekday"`
	Label   string               `json:"label"`
	Date    string               `json:"date"`
	Slots   map[int]ScheduleSlot `json:"slots"`
}

// ScheduleWeek is the full 7x10 live grid indexed by weekday.
type ScheduleWeek map[models.Weekday]ScheduleDay

// ProjectTemplates maps template rows onto the full weekday by order-number
// space. Every cell of the 7x10 grid is present; unoccupied cells hold the
// empty slot. Rows sharing a (weekday, order) pair overwrite in iteration
// order; the uniqueness constraint on templates makes that unreachable in
// practice.
func ProjectTemplates(templates []models.ScheduleTemplate) TemplateWeek {
	week := make(TemplateWeek, 7)
	for wd := models.Monday; wd <= models.Sunday; wd++ {
		slots := make(map[int]TemplateSlot, models.MaxOrderNumber)
		for order := models.MinOrderNumber; order <= models.MaxOrderNumber; order++ {
			slots[order] = TemplateSlot{}
		}
		week[wd] = TemplateDay{Weekday: wd, Label: wd.Label(), Slots: slots}
	}

	for _, tpl := range templates {
		if !tpl.Weekday.Valid() || tpl.OrderNumber < models.MinOrderNumber || tpl.OrderNumber > models.MaxOrderNumber {
			continue
		}
		week[tpl.Weekday].Slots[tpl.OrderNumber] = TemplateSlot{
			ID:          tpl.ID,
			SubjectID:   tpl.SubjectID,
			SubjectName: tpl.SubjectName,
		}
	}

	return week
}

// ProjectSchedule maps schedule entries for one Monday-Sunday week onto the
// dense grid. weekStart is the Monday of the window; each day carries its
// concrete calendar date. marks supplies the per-entry aggregate keyed by
// entry ID and may be nil.
func ProjectSchedule(entries []models.ScheduleEntry, weekStart time.Time, marks map[string]int) ScheduleWeek {
	week := make(ScheduleWeek, 7)
	for wd := models.Monday; wd <= models.Sunday; wd++ {
		slots := make(map[int]ScheduleSlot, models.MaxOrderNumber)
		for order := models.MinOrderNumber; order <= models.MaxOrderNumber; order++ {
			slots[order] = ScheduleSlot{}
		}
		day := ScheduleDay{Weekday: wd, Label: wd.Label(), Slots: slots}
		if !weekStart.IsZero() {
			day.Date = weekStart.AddDate(0, 0, int(wd)).Format("2006-01-02")
		}
		week[wd] = day
	}

	for _, entry := range entries {
		wd := models.WeekdayOf(entry.Date)
		if entry.OrderNumber < models.MinOrderNumber || entry.OrderNumber > models.MaxOrderNumber {
			continue
		}
		week[wd].Slots[entry.OrderNumber] = ScheduleSlot{
			ID:          entry.ID,
			SubjectID:   entry.SubjectID,
			SubjectName: entry.SubjectName,
			Homework:    entry.Homework,
			Marks:       marks[entry.ID],
		}
	}

	return week
}
