package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type fillScheduleRepoStub struct {
	exists    bool
	existsErr error
	createErr error
	created   []models.ScheduleEntry
}

func (s *fillScheduleRepoStub) ExistsInRange(_ context.Context, _ string, _, _ time.Time) (bool, error) {
	return s.exists, s.existsErr
}

func (s *fillScheduleRepoStub) CreateBatch(_ context.Context, entries []models.ScheduleEntry) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = entries
	return nil
}

type fillTermRepoStub struct {
	terms []models.Term
}

func (s *fillTermRepoStub) FindOverlapping(_ context.Context, _, _ time.Time) ([]models.Term, error) {
	return s.terms, nil
}

type fillTemplateRepoStub struct {
	templates []models.ScheduleTemplate
	gotSlots  []models.TemplateSlot
}

func (s *fillTemplateRepoStub) FindBySlots(_ context.Context, _ string, slots []models.TemplateSlot) ([]models.ScheduleTemplate, error) {
	s.gotSlots = slots
	return s.templates, nil
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func termCovering(t *testing.T, id, from, to string) models.Term {
	t.Helper()
	return models.Term{ID: id, Name: id, DateFrom: mustDate(t, from), DateTo: mustDate(t, to), Active: true}
}

func TestFillWeekCreatesEntriesFromTemplates(t *testing.T) {
	schedules := &fillScheduleRepoStub{}
	terms := &fillTermRepoStub{terms: []models.Term{termCovering(t, "term-1", "2024-09-01", "2024-12-31")}}
	templates := &fillTemplateRepoStub{templates: []models.ScheduleTemplate{
		{ID: "tpl-1", TermID: "term-1", StudyGroupID: "group-1", Weekday: models.Wednesday, OrderNumber: 3, SubjectID: "subj-1"},
		{ID: "tpl-2", TermID: "term-1", StudyGroupID: "group-1", Weekday: models.Monday, OrderNumber: 1, SubjectID: "subj-2"},
	}}
	svc := NewFillService(schedules, terms, templates, nil, nil, nil)

	// 2024-10-15 is a Tuesday; the window is Mon 2024-10-14 to Sun 2024-10-20.
	result, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: "2024-10-15"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, "2024-10-14", result.WeekStart)
	assert.Equal(t, "2024-10-20", result.WeekEnd)

	require.Len(t, schedules.created, 2)
	byTemplate := map[string]models.ScheduleEntry{}
	for _, entry := range schedules.created {
		byTemplate[entry.SubjectID] = entry
	}
	wednesday := byTemplate["subj-1"]
	assert.Equal(t, "2024-10-16", wednesday.Date.Format("2006-01-02"))
	assert.Equal(t, 3, wednesday.OrderNumber)
	assert.Equal(t, "group-1", wednesday.StudyGroupID)
	monday := byTemplate["subj-2"]
	assert.Equal(t, "2024-10-14", monday.Date.Format("2006-01-02"))

	// All seven weekdays were offered to the template query.
	assert.Len(t, templates.gotSlots, 7)
}

func TestFillWeekMissingParameters(t *testing.T) {
	svc := NewFillService(&fillScheduleRepoStub{}, &fillTermRepoStub{}, &fillTemplateRepoStub{}, nil, nil, nil)

	_, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "", Date: "2024-10-15"})
	assert.ErrorIs(t, err, appErrors.ErrMissingParameters)

	_, err = svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: ""})
	assert.ErrorIs(t, err, appErrors.ErrMissingParameters)
}

func TestFillWeekAlreadyFilled(t *testing.T) {
	schedules := &fillScheduleRepoStub{exists: true}
	terms := &fillTermRepoStub{terms: []models.Term{termCovering(t, "term-1", "2024-09-01", "2024-12-31")}}
	svc := NewFillService(schedules, terms, &fillTemplateRepoStub{}, nil, nil, nil)

	_, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: "2024-10-15"})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyFilled)
	assert.Empty(t, schedules.created)
}

func TestFillWeekNoTermForWindow(t *testing.T) {
	svc := NewFillService(&fillScheduleRepoStub{}, &fillTermRepoStub{}, &fillTemplateRepoStub{}, nil, nil, nil)

	_, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: "2024-10-15"})
	assert.ErrorIs(t, err, appErrors.ErrNoActiveTerm)
}

func TestFillWeekNoTemplateFound(t *testing.T) {
	terms := &fillTermRepoStub{terms: []models.Term{termCovering(t, "term-1", "2024-09-01", "2024-12-31")}}
	svc := NewFillService(&fillScheduleRepoStub{}, terms, &fillTemplateRepoStub{}, nil, nil, nil)

	_, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: "2024-10-15"})
	assert.ErrorIs(t, err, appErrors.ErrNoTemplateFound)
}

func TestFillWeekUniqueViolationMapsToAlreadyFilled(t *testing.T) {
	schedules := &fillScheduleRepoStub{createErr: &pq.Error{Code: "23505"}}
	terms := &fillTermRepoStub{terms: []models.Term{termCovering(t, "term-1", "2024-09-01", "2024-12-31")}}
	templates := &fillTemplateRepoStub{templates: []models.ScheduleTemplate{
		{ID: "tpl-1", TermID: "term-1", StudyGroupID: "group-1", Weekday: models.Monday, OrderNumber: 1, SubjectID: "subj-1"},
	}}
	svc := NewFillService(schedules, terms, templates, nil, nil, nil)

	_, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: "2024-10-15"})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyFilled)
}

func TestFillWeekSpanningTwoTerms(t *testing.T) {
	// Terms split mid-week: Mon-Wed belong to the first, Thu-Sun to the
	// second. Each weekday pairs with the term covering its date.
	terms := &fillTermRepoStub{terms: []models.Term{
		termCovering(t, "term-1", "2024-09-01", "2024-10-16"),
		termCovering(t, "term-2", "2024-10-17", "2024-12-31"),
	}}
	templates := &fillTemplateRepoStub{}
	svc := NewFillService(&fillScheduleRepoStub{}, terms, templates, nil, nil, nil)

	_, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: "2024-10-15"})
	assert.ErrorIs(t, err, appErrors.ErrNoTemplateFound)

	require.Len(t, templates.gotSlots, 7)
	termsByWeekday := map[models.Weekday]string{}
	for _, slot := range templates.gotSlots {
		termsByWeekday[slot.Weekday] = slot.TermID
	}
	assert.Equal(t, "term-1", termsByWeekday[models.Wednesday])
	assert.Equal(t, "term-2", termsByWeekday[models.Thursday])
}

func TestFillWeekInvalidDate(t *testing.T) {
	svc := NewFillService(&fillScheduleRepoStub{}, &fillTermRepoStub{}, &fillTemplateRepoStub{}, nil, nil, nil)

	_, err := svc.FillWeek(context.Background(), FillScheduleRequest{StudyGroupID: "group-1", Date: "15.10.2024"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
