package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniflow/uniflow-api/internal/models"
)

type scheduleRepoStub struct {
	entries map[string]*models.ScheduleEntry
	week    []models.ScheduleEntry

	listedGroup string
	updatedID   string
	deletedID   string
}

func (s *scheduleRepoStub) ListWeek(_ context.Context, studyGroupID string, _, _ time.Time) ([]models.ScheduleEntry, error) {
	s.listedGroup = studyGroupID
	return s.week, nil
}

func (s *scheduleRepoStub) FindByID(_ context.Context, id string) (*models.ScheduleEntry, error) {
	if entry, ok := s.entries[id]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleRepoStub) Create(_ context.Context, entry *models.ScheduleEntry) error {
	return nil
}

func (s *scheduleRepoStub) Update(_ context.Context, id, _, _ string) error {
	s.updatedID = id
	return nil
}

func (s *scheduleRepoStub) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return nil
}

type markAggregateStub struct {
	counts      map[string]int
	studentOnly map[string]int

	askedStudent string
}

func (s *markAggregateStub) CountBySchedules(_ context.Context, _ []string) (map[string]int, error) {
	return s.counts, nil
}

func (s *markAggregateStub) MarksForStudent(_ context.Context, _ []string, studentID string) (map[string]int, error) {
	s.askedStudent = studentID
	return s.studentOnly, nil
}

func tutorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "tutor-1", Role: models.RoleTutor}
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent}
}

func TestWeekGridTutorSeesMarkCounts(t *testing.T) {
	monday := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	schedules := &scheduleRepoStub{week: []models.ScheduleEntry{
		{ID: "entry-1", StudyGroupID: "group-1", Date: monday, OrderNumber: 1, SubjectID: "subj-1"},
	}}
	marks := &markAggregateStub{counts: map[string]int{"entry-1": 12}}
	svc := NewScheduleService(schedules, marks, &profileReaderStub{}, nil, nil, nil)

	result, err := svc.WeekGrid(context.Background(), WeekGridQuery{StudyGroupID: "group-1", Date: "2024-10-15"}, tutorClaims())
	require.NoError(t, err)
	assert.False(t, result.TableEmpty)
	assert.Equal(t, "2024-10-14", result.WeekStart)
	assert.Equal(t, "2024-10-20", result.WeekEnd)
	assert.Equal(t, 12, result.Week[models.Monday].Slots[1].Marks)
	assert.Equal(t, "group-1", schedules.listedGroup)
}

func TestWeekGridStudentScopedToOwnGroup(t *testing.T) {
	monday := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	schedules := &scheduleRepoStub{week: []models.ScheduleEntry{
		{ID: "entry-1", StudyGroupID: "group-1", Date: monday, OrderNumber: 1, SubjectID: "subj-1"},
	}}
	marks := &markAggregateStub{studentOnly: map[string]int{"entry-1": 88}}
	profiles := &profileReaderStub{profiles: map[string]*models.UserProfile{
		"student-1": {UserID: "student-1", StudyGroupID: groupPtr("group-1"), Checked: true},
	}}
	svc := NewScheduleService(schedules, marks, profiles, nil, nil, nil)

	// The requested group is ignored; students always see their own.
	result, err := svc.WeekGrid(context.Background(), WeekGridQuery{StudyGroupID: "group-9", Date: "2024-10-15"}, studentClaims("student-1"))
	require.NoError(t, err)
	assert.Equal(t, "group-1", schedules.listedGroup)
	assert.Equal(t, "student-1", marks.askedStudent)
	assert.Equal(t, 88, result.Week[models.Monday].Slots[1].Marks)
}

func TestWeekGridStudentWithoutGroupGetsEmptyGrid(t *testing.T) {
	profiles := &profileReaderStub{profiles: map[string]*models.UserProfile{
		"student-1": {UserID: "student-1", StudyGroupID: nil},
	}}
	svc := NewScheduleService(&scheduleRepoStub{}, &markAggregateStub{}, profiles, nil, nil, nil)

	result, err := svc.WeekGrid(context.Background(), WeekGridQuery{Date: "2024-10-15"}, studentClaims("student-1"))
	require.NoError(t, err)
	assert.True(t, result.TableEmpty)
	require.Len(t, result.Week, 7)
}

func TestWeekGridStudentWithoutProfileGetsEmptyGrid(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, &markAggregateStub{}, &profileReaderStub{}, nil, nil, nil)

	result, err := svc.WeekGrid(context.Background(), WeekGridQuery{Date: "2024-10-15"}, studentClaims("student-1"))
	require.NoError(t, err)
	assert.True(t, result.TableEmpty)
}

func TestWeekGridMissingFiltersYieldEmptyGrid(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, &markAggregateStub{}, &profileReaderStub{}, nil, nil, nil)

	result, err := svc.WeekGrid(context.Background(), WeekGridQuery{}, tutorClaims())
	require.NoError(t, err)
	assert.True(t, result.TableEmpty)
}

func TestExportWeekShapesDataset(t *testing.T) {
	monday := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	schedules := &scheduleRepoStub{week: []models.ScheduleEntry{
		{ID: "entry-1", StudyGroupID: "group-1", Date: monday, OrderNumber: 2, SubjectID: "subj-1", SubjectName: "Algebra"},
	}}
	svc := NewScheduleService(schedules, &markAggregateStub{}, &profileReaderStub{}, nil, nil, nil)

	dataset, title, err := svc.ExportWeek(context.Background(), WeekGridQuery{StudyGroupID: "group-1", Date: "2024-10-15"}, tutorClaims())
	require.NoError(t, err)
	assert.Contains(t, title, "2024-10-14")
	require.Len(t, dataset.Headers, 8)
	require.Len(t, dataset.Rows, models.MaxOrderNumber)
	assert.Equal(t, "Algebra", dataset.Rows[1][dataset.Headers[1]])
}

func TestScheduleUpdateKeepsIdentityFields(t *testing.T) {
	schedules := &scheduleRepoStub{entries: map[string]*models.ScheduleEntry{
		"entry-1": {ID: "entry-1", StudyGroupID: "group-1", OrderNumber: 4, SubjectID: "subj-1"},
	}}
	svc := NewScheduleService(schedules, &markAggregateStub{}, &profileReaderStub{}, nil, nil, nil)

	entry, err := svc.Update(context.Background(), "entry-1", UpdateScheduleRequest{SubjectID: "subj-2", Homework: "read ch. 4"})
	require.NoError(t, err)
	assert.Equal(t, "entry-1", schedules.updatedID)
	assert.Equal(t, "subj-2", entry.SubjectID)
	assert.Equal(t, "read ch. 4", entry.Homework)
	assert.Equal(t, 4, entry.OrderNumber)
	assert.Equal(t, "group-1", entry.StudyGroupID)
}
