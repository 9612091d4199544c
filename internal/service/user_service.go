package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type userRepo interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *models.UserProfile) error
	ListProfilesByGroup(ctx context.Context, studyGroupID string) ([]models.UserProfile, error)
}

type profileGroupReader interface {
	FindByID(ctx context.Context, id string) (*models.StudyGroup, error)
}

// UpdateProfileRequest assigns a student to a study group and toggles the
// checked flag.
type UpdateProfileRequest struct {
	StudyGroupID *string `json:"study_group"`
	Checked      bool    `json:"checked"`
}

// UserService manages accounts and student profiles.
type UserService struct {
	users     userRepo
	groups    profileGroupReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users userRepo, groups profileGroupReader, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, groups: groups, validator: validate, logger: logger}
}

// List returns users matching the filter plus pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// GetProfile returns the profile of one user. A user without a saved profile
// gets an unchecked, groupless one instead of an error.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.UserProfile{UserID: user.ID, FullName: user.FullName, Email: user.Email}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// UpdateProfile assigns a study group to a student. A checked profile must
// carry a study group, and the group must exist.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only students carry a study group profile")
	}

	if req.Checked && req.StudyGroupID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a checked profile requires a study group")
	}
	if req.StudyGroupID != nil {
		if _, err := s.groups.FindByID(ctx, *req.StudyGroupID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrValidation, "study group not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study group")
		}
	}

	profile := &models.UserProfile{
		UserID:       userID,
		StudyGroupID: req.StudyGroupID,
		Checked:      req.Checked,
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save profile")
	}
	profile.FullName = user.FullName
	profile.Email = user.Email
	return profile, nil
}

// ListGroupMembers returns the profiles of all students assigned to a group.
func (s *UserService) ListGroupMembers(ctx context.Context, studyGroupID string) ([]models.UserProfile, error) {
	profiles, err := s.users.ListProfilesByGroup(ctx, studyGroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group members")
	}
	return profiles, nil
}
