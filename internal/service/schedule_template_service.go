package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/grid"
	"github.com/uniflow/uniflow-api/internal/models"
	"github.com/uniflow/uniflow-api/internal/repository"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type templateRepo interface {
	ListByTermAndGroup(ctx context.Context, termID, studyGroupID string) ([]models.ScheduleTemplate, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleTemplate, error)
	ExistsForSlot(ctx context.Context, termID, studyGroupID string, weekday models.Weekday, orderNumber int, excludeID string) (bool, error)
	Create(ctx context.Context, tpl *models.ScheduleTemplate) error
	UpdateSubject(ctx context.Context, id, subjectID string) error
	Delete(ctx context.Context, id string) error
}

// TemplateGridQuery filters the template grid by term and study group.
type TemplateGridQuery struct {
	TermID       string
	StudyGroupID string
}

// TemplateGridResult is the 7x10 template projection plus the empty-table
// flag for the listing endpoint.
type TemplateGridResult struct {
	Week       grid.TemplateWeek `json:"week"`
	TableEmpty bool              `json:"table_empty"`
}

// CreateTemplateRequest defines a recurring weekly slot.
type CreateTemplateRequest struct {
	StudyGroupID string `json:"study_group" validate:"required"`
	TermID       string `json:"term" validate:"required"`
	Weekday      int    `json:"weekday" validate:"min=0,max=6"`
	OrderNumber  int    `json:"order_number" validate:"required,min=1,max=10"`
	SubjectID    string `json:"subject" validate:"required"`
}

// UpdateTemplateRequest carries the only mutable template field. Group,
// term, weekday and order identify the slot and are fixed after creation.
type UpdateTemplateRequest struct {
	SubjectID string `json:"subject" validate:"required"`
}

// ScheduleTemplateService manages recurring weekly schedule definitions.
type ScheduleTemplateService struct {
	templates templateRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleTemplateService constructs a ScheduleTemplateService.
func NewScheduleTemplateService(templates templateRepo, validate *validator.Validate, logger *zap.Logger) *ScheduleTemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleTemplateService{templates: templates, validator: validate, logger: logger}
}

// Grid returns the dense weekly template grid for one term and group.
// Missing filters yield an empty grid with TableEmpty set rather than an
// error, so the page renders a blank table.
func (s *ScheduleTemplateService) Grid(ctx context.Context, query TemplateGridQuery) (*TemplateGridResult, error) {
	if query.TermID == "" || query.StudyGroupID == "" {
		return &TemplateGridResult{Week: grid.ProjectTemplates(nil), TableEmpty: true}, nil
	}

	templates, err := s.templates.ListByTermAndGroup(ctx, query.TermID, query.StudyGroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}

	return &TemplateGridResult{
		Week:       grid.ProjectTemplates(templates),
		TableEmpty: len(templates) == 0,
	}, nil
}

// Get returns a single template slot.
func (s *ScheduleTemplateService) Get(ctx context.Context, id string) (*models.ScheduleTemplate, error) {
	tpl, err := s.templates.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	return tpl, nil
}

// Create adds a template slot after checking the slot is free.
func (s *ScheduleTemplateService) Create(ctx context.Context, req CreateTemplateRequest) (*models.ScheduleTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}

	weekday := models.Weekday(req.Weekday)
	exists, err := s.templates.ExistsForSlot(ctx, req.TermID, req.StudyGroupID, weekday, req.OrderNumber, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check template slot")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a template already occupies this weekday and order number")
	}

	tpl := &models.ScheduleTemplate{
		StudyGroupID: req.StudyGroupID,
		TermID:       req.TermID,
		Weekday:      weekday,
		OrderNumber:  req.OrderNumber,
		SubjectID:    req.SubjectID,
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a template already occupies this weekday and order number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}
	return tpl, nil
}

// UpdateSubject replaces the subject of an existing slot.
func (s *ScheduleTemplateService) UpdateSubject(ctx context.Context, id string, req UpdateTemplateRequest) (*models.ScheduleTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}

	tpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.templates.UpdateSubject(ctx, id, req.SubjectID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template")
	}
	tpl.SubjectID = req.SubjectID
	return tpl, nil
}

// Delete removes a template slot. Already materialized schedule entries are
// untouched.
func (s *ScheduleTemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete template")
	}
	return nil
}
