package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniflow/uniflow-api/internal/models"
)

func TestProjectTemplatesEmptyInputYieldsFullGrid(t *testing.T) {
	week := ProjectTemplates(nil)

	require.Len(t, week, 7)
	for wd := models.Monday; wd <= models.Sunday; wd++ {
		day, ok := week[wd]
		require.True(t, ok)
		assert.Equal(t, wd, day.Weekday)
		assert.NotEmpty(t, day.Label)
		require.Len(t, day.Slots, models.MaxOrderNumber)
		for order := models.MinOrderNumber; order <= models.MaxOrderNumber; order++ {
			assert.Equal(t, TemplateSlot{}, day.Slots[order])
		}
	}
}

func TestProjectTemplatesPlacesRows(t *testing.T) {
	week := ProjectTemplates([]models.ScheduleTemplate{
		{ID: "tpl-1", Weekday: models.Tuesday, OrderNumber: 2, SubjectID: "subj-1", SubjectName: "Algebra"},
		{ID: "tpl-2", Weekday: models.Friday, OrderNumber: 10, SubjectID: "subj-2", SubjectName: "History"},
	})

	assert.Equal(t, "Algebra", week[models.Tuesday].Slots[2].SubjectName)
	assert.Equal(t, "History", week[models.Friday].Slots[10].SubjectName)
	assert.Equal(t, TemplateSlot{}, week[models.Tuesday].Slots[3])
}

func TestProjectTemplatesSkipsOutOfRangeRows(t *testing.T) {
	week := ProjectTemplates([]models.ScheduleTemplate{
		{ID: "tpl-1", Weekday: models.Monday, OrderNumber: 0, SubjectID: "subj-1"},
		{ID: "tpl-2", Weekday: models.Monday, OrderNumber: 11, SubjectID: "subj-2"},
		{ID: "tpl-3", Weekday: models.Weekday(9), OrderNumber: 1, SubjectID: "subj-3"},
	})

	for order := models.MinOrderNumber; order <= models.MaxOrderNumber; order++ {
		assert.Equal(t, TemplateSlot{}, week[models.Monday].Slots[order])
	}
}

func TestProjectScheduleCarriesDatesAndMarks(t *testing.T) {
	weekStart := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	entries := []models.ScheduleEntry{
		{ID: "entry-1", Date: weekStart.AddDate(0, 0, 2), OrderNumber: 3, SubjectID: "subj-1", SubjectName: "Algebra", Homework: "ex. 12"},
	}

	week := ProjectSchedule(entries, weekStart, map[string]int{"entry-1": 85})

	require.Len(t, week, 7)
	assert.Equal(t, "2024-10-14", week[models.Monday].Date)
	assert.Equal(t, "2024-10-20", week[models.Sunday].Date)

	slot := week[models.Wednesday].Slots[3]
	assert.Equal(t, "Algebra", slot.SubjectName)
	assert.Equal(t, "ex. 12", slot.Homework)
	assert.Equal(t, 85, slot.Marks)

	assert.Equal(t, ScheduleSlot{}, week[models.Wednesday].Slots[4])
}

func TestProjectScheduleNilMarks(t *testing.T) {
	weekStart := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	entries := []models.ScheduleEntry{
		{ID: "entry-1", Date: weekStart, OrderNumber: 1, SubjectID: "subj-1"},
	}

	week := ProjectSchedule(entries, weekStart, nil)
	assert.Equal(t, 0, week[models.Monday].Slots[1].Marks)
}

func TestProjectScheduleIsPure(t *testing.T) {
	weekStart := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	entries := []models.ScheduleEntry{
		{ID: "entry-1", Date: weekStart, OrderNumber: 1, SubjectID: "subj-1"},
	}

	first := ProjectSchedule(entries, weekStart, nil)
	second := ProjectSchedule(entries, weekStart, nil)
	assert.Equal(t, first, second)

	// Mutating one projection must not leak into a fresh one.
	first[models.Monday].Slots[1] = ScheduleSlot{ID: "mutated"}
	third := ProjectSchedule(entries, weekStart, nil)
	assert.Equal(t, "entry-1", third[models.Monday].Slots[1].ID)
}
