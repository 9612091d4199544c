package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type userRepoStub struct {
	users    map[string]*models.User
	profiles map[string]*models.UserProfile
	saved    *models.UserProfile
}

func (s *userRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) List(_ context.Context, _ models.UserFilter) ([]models.User, int, error) {
	return nil, 0, nil
}

func (s *userRepoStub) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) UpsertProfile(_ context.Context, profile *models.UserProfile) error {
	s.saved = profile
	return nil
}

func (s *userRepoStub) ListProfilesByGroup(_ context.Context, _ string) ([]models.UserProfile, error) {
	return nil, nil
}

type groupReaderStub struct {
	groups map[string]*models.StudyGroup
}

func (s *groupReaderStub) FindByID(_ context.Context, id string) (*models.StudyGroup, error) {
	if group, ok := s.groups[id]; ok {
		return group, nil
	}
	return nil, sql.ErrNoRows
}

func userFixture() (*UserService, *userRepoStub) {
	repo := &userRepoStub{
		users: map[string]*models.User{
			"student-1": {ID: "student-1", Email: "s1@example.edu", FullName: "Sam Student", Role: models.RoleStudent, Active: true},
			"tutor-1":   {ID: "tutor-1", Email: "t1@example.edu", FullName: "Pat Tutor", Role: models.RoleTutor, Active: true},
		},
		profiles: map[string]*models.UserProfile{},
	}
	groups := &groupReaderStub{groups: map[string]*models.StudyGroup{
		"group-1": {ID: "group-1", Name: "CS-101", Active: true},
	}}
	return NewUserService(repo, groups, nil, nil), repo
}

func TestUpdateProfileAssignsGroup(t *testing.T) {
	svc, repo := userFixture()

	profile, err := svc.UpdateProfile(context.Background(), "student-1", UpdateProfileRequest{
		StudyGroupID: groupPtr("group-1"),
		Checked:      true,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "group-1", *profile.StudyGroupID)
	assert.True(t, profile.Checked)
	assert.Equal(t, "Sam Student", profile.FullName)
}

func TestUpdateProfileCheckedRequiresGroup(t *testing.T) {
	svc, _ := userFixture()

	_, err := svc.UpdateProfile(context.Background(), "student-1", UpdateProfileRequest{Checked: true})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestUpdateProfileUnknownGroup(t *testing.T) {
	svc, _ := userFixture()

	_, err := svc.UpdateProfile(context.Background(), "student-1", UpdateProfileRequest{
		StudyGroupID: groupPtr("nope"),
		Checked:      true,
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestUpdateProfileRejectsTutors(t *testing.T) {
	svc, _ := userFixture()

	_, err := svc.UpdateProfile(context.Background(), "tutor-1", UpdateProfileRequest{
		StudyGroupID: groupPtr("group-1"),
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestGetProfileSynthesizesEmptyProfile(t *testing.T) {
	svc, _ := userFixture()

	profile, err := svc.GetProfile(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Nil(t, profile.StudyGroupID)
	assert.False(t, profile.Checked)
	assert.Equal(t, "Sam Student", profile.FullName)
}
