package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type markRepoStub struct {
	byID    map[string]*models.StudentMark
	exists  bool
	created *models.StudentMark
	updated *models.StudentMark
}

func (s *markRepoStub) ListBySchedule(_ context.Context, _ string) ([]models.StudentMark, error) {
	return nil, nil
}

func (s *markRepoStub) FindByID(_ context.Context, id string) (*models.StudentMark, error) {
	if mark, ok := s.byID[id]; ok {
		return mark, nil
	}
	return nil, sql.ErrNoRows
}

func (s *markRepoStub) Exists(_ context.Context, _, _, _ string) (bool, error) {
	return s.exists, nil
}

func (s *markRepoStub) Create(_ context.Context, mark *models.StudentMark) error {
	s.created = mark
	return nil
}

func (s *markRepoStub) Update(_ context.Context, mark *models.StudentMark) error {
	s.updated = mark
	return nil
}

func (s *markRepoStub) Delete(_ context.Context, _ string) error {
	return nil
}

type scheduleReaderStub struct {
	entries map[string]*models.ScheduleEntry
}

func (s *scheduleReaderStub) FindByID(_ context.Context, id string) (*models.ScheduleEntry, error) {
	if entry, ok := s.entries[id]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

type profileReaderStub struct {
	profiles map[string]*models.UserProfile
}

func (s *profileReaderStub) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return nil, sql.ErrNoRows
}

func groupPtr(id string) *string {
	return &id
}

func markFixture() (*StudentMarkService, *markRepoStub) {
	marks := &markRepoStub{byID: map[string]*models.StudentMark{}}
	schedules := &scheduleReaderStub{entries: map[string]*models.ScheduleEntry{
		"sched-1": {ID: "sched-1", StudyGroupID: "group-1", Date: time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC), OrderNumber: 1},
	}}
	profiles := &profileReaderStub{profiles: map[string]*models.UserProfile{
		"student-1": {UserID: "student-1", StudyGroupID: groupPtr("group-1"), Checked: true},
		"student-2": {UserID: "student-2", StudyGroupID: groupPtr("group-2"), Checked: true},
	}}
	return NewStudentMarkService(marks, schedules, profiles, nil, nil, nil), marks
}

func TestMarkCreateSuccess(t *testing.T) {
	svc, repo := markFixture()

	mark, err := svc.Create(context.Background(), "sched-1", CreateMarkRequest{StudentID: "student-1", Mark: 92})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "sched-1", mark.ScheduleID)
	assert.Equal(t, 92, mark.Mark)
}

func TestMarkCreateRejectsOutOfRange(t *testing.T) {
	svc, _ := markFixture()

	_, err := svc.Create(context.Background(), "sched-1", CreateMarkRequest{StudentID: "student-1", Mark: 101})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(context.Background(), "sched-1", CreateMarkRequest{StudentID: "student-1", Mark: -1})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestMarkCreateRejectsDuplicate(t *testing.T) {
	svc, repo := markFixture()
	repo.exists = true

	_, err := svc.Create(context.Background(), "sched-1", CreateMarkRequest{StudentID: "student-1", Mark: 50})
	assertErrorCode(t, err, appErrors.ErrConflict.Code)
}

func TestMarkCreateRejectsStudentOutsideGroup(t *testing.T) {
	svc, _ := markFixture()

	_, err := svc.Create(context.Background(), "sched-1", CreateMarkRequest{StudentID: "student-2", Mark: 50})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestMarkCreateUnknownSchedule(t *testing.T) {
	svc, _ := markFixture()

	_, err := svc.Create(context.Background(), "missing", CreateMarkRequest{StudentID: "student-1", Mark: 50})
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestMarkUpdateChangesValueOnly(t *testing.T) {
	svc, repo := markFixture()
	repo.byID["mark-1"] = &models.StudentMark{ID: "mark-1", ScheduleID: "sched-1", StudentID: "student-1", Mark: 40}

	mark, err := svc.Update(context.Background(), "mark-1", UpdateMarkRequest{Mark: 75})
	require.NoError(t, err)
	assert.Equal(t, 75, mark.Mark)
	assert.Equal(t, "student-1", mark.StudentID)
	require.NotNil(t, repo.updated)
}

func TestMarkZeroIsValid(t *testing.T) {
	svc, repo := markFixture()

	_, err := svc.Create(context.Background(), "sched-1", CreateMarkRequest{StudentID: "student-1", Mark: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.created.Mark)
}
