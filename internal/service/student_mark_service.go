package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/models"
	"github.com/uniflow/uniflow-api/internal/repository"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type studentMarkRepo interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.StudentMark, error)
	FindByID(ctx context.Context, id string) (*models.StudentMark, error)
	Exists(ctx context.Context, scheduleID, studentID, excludeID string) (bool, error)
	Create(ctx context.Context, mark *models.StudentMark) error
	Update(ctx context.Context, mark *models.StudentMark) error
	Delete(ctx context.Context, id string) error
}

type markScheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
}

type markProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// CreateMarkRequest records a mark for one student on one session.
type CreateMarkRequest struct {
	StudentID string `json:"student" validate:"required"`
	Mark      int    `json:"mark" validate:"min=0,max=100"`
}

// UpdateMarkRequest changes the value of an existing mark. The student and
// session are fixed after creation.
type UpdateMarkRequest struct {
	Mark int `json:"mark" validate:"min=0,max=100"`
}

// StudentMarkService manages per-session marks.
type StudentMarkService struct {
	marks     studentMarkRepo
	schedules markScheduleReader
	profiles  markProfileReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentMarkService constructs a StudentMarkService.
func NewStudentMarkService(marks studentMarkRepo, schedules markScheduleReader, profiles markProfileReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentMarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentMarkService{
		marks:     marks,
		schedules: schedules,
		profiles:  profiles,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// ListBySchedule returns every mark recorded for one class session.
func (s *StudentMarkService) ListBySchedule(ctx context.Context, scheduleID string) ([]models.StudentMark, error) {
	if _, err := s.loadSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	marks, err := s.marks.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list marks")
	}
	return marks, nil
}

// Get returns a single mark.
func (s *StudentMarkService) Get(ctx context.Context, id string) (*models.StudentMark, error) {
	mark, err := s.marks.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mark not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mark")
	}
	return mark, nil
}

// Create records a mark, rejecting duplicates for the same student and
// session and students outside the session's study group.
func (s *StudentMarkService) Create(ctx context.Context, scheduleID string, req CreateMarkRequest) (*models.StudentMark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}

	entry, err := s.loadSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfile(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student has no profile")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	if profile.StudyGroupID == nil || *profile.StudyGroupID != entry.StudyGroupID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student does not belong to the session's study group")
	}

	taken, err := s.marks.Exists(ctx, scheduleID, req.StudentID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing mark")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a mark for this student already exists on this session")
	}

	mark := &models.StudentMark{
		ScheduleID: scheduleID,
		StudentID:  req.StudentID,
		Mark:       req.Mark,
	}
	if err := s.marks.Create(ctx, mark); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a mark for this student already exists on this session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mark")
	}

	s.cache.InvalidateGroup(ctx, entry.StudyGroupID)
	return mark, nil
}

// Update changes the value of an existing mark.
func (s *StudentMarkService) Update(ctx context.Context, id string, req UpdateMarkRequest) (*models.StudentMark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}

	mark, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mark.Mark = req.Mark
	if err := s.marks.Update(ctx, mark); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mark")
	}

	if entry, err := s.loadSchedule(ctx, mark.ScheduleID); err == nil {
		s.cache.InvalidateGroup(ctx, entry.StudyGroupID)
	}
	return mark, nil
}

// Delete removes a mark.
func (s *StudentMarkService) Delete(ctx context.Context, id string) error {
	mark, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.marks.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete mark")
	}
	if entry, err := s.loadSchedule(ctx, mark.ScheduleID); err == nil {
		s.cache.InvalidateGroup(ctx, entry.StudyGroupID)
	}
	return nil
}

func (s *StudentMarkService) loadSchedule(ctx context.Context, scheduleID string) (*models.ScheduleEntry, error) {
	entry, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	return entry, nil
}
