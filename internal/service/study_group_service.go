package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type studyGroupRepo interface {
	List(ctx context.Context, filter models.DictionaryFilter) ([]models.StudyGroup, int, error)
	FindByID(ctx context.Context, id string) (*models.StudyGroup, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, group *models.StudyGroup) error
	Update(ctx context.Context, group *models.StudyGroup) error
	Delete(ctx context.Context, id string) error
}

// StudyGroupRequest is the payload for creating and updating study groups.
type StudyGroupRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Active bool   `json:"active"`
}

// StudyGroupService manages the study group dictionary.
type StudyGroupService struct {
	groups    studyGroupRepo
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudyGroupService constructs a StudyGroupService.
func NewStudyGroupService(groups studyGroupRepo, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudyGroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyGroupService{groups: groups, cache: cache, validator: validate, logger: logger}
}

// List returns study groups matching the filter plus pagination metadata.
func (s *StudyGroupService) List(ctx context.Context, filter models.DictionaryFilter) ([]models.StudyGroup, *models.Pagination, error) {
	groups, total, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list study groups")
	}
	return groups, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single study group.
func (s *StudyGroupService) Get(ctx context.Context, id string) (*models.StudyGroup, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "study group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study group")
	}
	return group, nil
}

// Create adds a study group after checking name uniqueness.
func (s *StudyGroupService) Create(ctx context.Context, req StudyGroupRequest) (*models.StudyGroup, error) {
	if err := s.validateName(ctx, req, ""); err != nil {
		return nil, err
	}
	group := &models.StudyGroup{Name: req.Name, Active: req.Active}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create study group")
	}
	return group, nil
}

// Update renames or toggles a study group. The weekly grid cache for the
// group is dropped so stale names do not linger.
func (s *StudyGroupService) Update(ctx context.Context, id string, req StudyGroupRequest) (*models.StudyGroup, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateName(ctx, req, id); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Active = req.Active
	if err := s.groups.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update study group")
	}
	s.cache.InvalidateGroup(ctx, id)
	return existing, nil
}

// Delete removes a study group.
func (s *StudyGroupService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete study group")
	}
	s.cache.InvalidateGroup(ctx, id)
	return nil
}

func (s *StudyGroupService) validateName(ctx context.Context, req StudyGroupRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid study group payload")
	}
	taken, err := s.groups.ExistsByName(ctx, req.Name, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check study group name")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrConflict, "a study group with this name already exists")
	}
	return nil
}
