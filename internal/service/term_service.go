package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type termRepo interface {
	List(ctx context.Context, filter models.DictionaryFilter) ([]models.Term, int, error)
	FindByID(ctx context.Context, id string) (*models.Term, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	OverlapsActive(ctx context.Context, dateFrom, dateTo time.Time, excludeID string) (bool, error)
	Create(ctx context.Context, term *models.Term) error
	Update(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, id string) error
}

// TermRequest is the payload for creating and updating terms.
type TermRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	DateFrom string `json:"date_from" validate:"required"`
	DateTo   string `json:"date_to" validate:"required"`
	Active   bool   `json:"active"`
}

// TermService manages academic terms.
type TermService struct {
	terms     termRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService constructs a TermService.
func NewTermService(terms termRepo, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{terms: terms, validator: validate, logger: logger}
}

// List returns terms matching the filter plus pagination metadata.
func (s *TermService) List(ctx context.Context, filter models.DictionaryFilter) ([]models.Term, *models.Pagination, error) {
	terms, total, err := s.terms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	return terms, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single term.
func (s *TermService) Get(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.terms.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

// Create validates dates, name uniqueness and active-overlap before saving.
func (s *TermService) Create(ctx context.Context, req TermRequest) (*models.Term, error) {
	term, err := s.buildTerm(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.terms.Create(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term")
	}
	return term, nil
}

// Update applies the same validation as Create, excluding the term itself
// from the uniqueness and overlap checks.
func (s *TermService) Update(ctx context.Context, id string, req TermRequest) (*models.Term, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	term, err := s.buildTerm(ctx, req, id)
	if err != nil {
		return nil, err
	}
	term.ID = existing.ID
	term.CreatedAt = existing.CreatedAt

	if err := s.terms.Update(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update term")
	}
	return term, nil
}

// Delete removes a term.
func (s *TermService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.terms.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete term")
	}
	return nil
}

func (s *TermService) buildTerm(ctx context.Context, req TermRequest, excludeID string) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}

	dateFrom, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_from must be in YYYY-MM-DD format")
	}
	dateTo, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_to must be in YYYY-MM-DD format")
	}
	if !dateFrom.Before(dateTo) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_from must precede date_to")
	}

	taken, err := s.terms.ExistsByName(ctx, req.Name, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check term name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a term with this name already exists")
	}

	// Overlap is only enforced between active terms. Inactive terms may
	// share dates freely.
	if req.Active {
		overlaps, err := s.terms.OverlapsActive(ctx, dateFrom, dateTo, excludeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check term overlap")
		}
		if overlaps {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an active term already covers part of this date range")
		}
	}

	return &models.Term{
		Name:     req.Name,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Active:   req.Active,
	}, nil
}
