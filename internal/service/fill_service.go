package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/models"
	"github.com/uniflow/uniflow-api/internal/repository"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type fillScheduleRepo interface {
	ExistsInRange(ctx context.Context, studyGroupID string, weekStart, weekEnd time.Time) (bool, error)
	CreateBatch(ctx context.Context, entries []models.ScheduleEntry) error
}

type fillTermRepo interface {
	FindOverlapping(ctx context.Context, weekStart, weekEnd time.Time) ([]models.Term, error)
}

type fillTemplateRepo interface {
	FindBySlots(ctx context.Context, studyGroupID string, slots []models.TemplateSlot) ([]models.ScheduleTemplate, error)
}

// FillScheduleRequest identifies the study group and any date within the
// target week.
type FillScheduleRequest struct {
	StudyGroupID string `json:"study_group"`
	Date         string `json:"date"`
}

// FillResult reports a successful materialization.
type FillResult struct {
	Created   int    `json:"created"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
}

// FillService materializes a week of schedule entries from the templates
// matching the week's weekday and term combinations.
type FillService struct {
	schedules fillScheduleRepo
	terms     fillTermRepo
	templates fillTemplateRepo
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewFillService constructs a FillService.
func NewFillService(schedules fillScheduleRepo, terms fillTermRepo, templates fillTemplateRepo, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *FillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FillService{
		schedules: schedules,
		terms:     terms,
		templates: templates,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// FillWeek populates the Monday-Sunday week containing the requested date
// for one study group. The operation either creates every matching entry or
// none: an existing entry anywhere in the window aborts before any write,
// and the batch insert runs in a single transaction with the uniqueness
// constraint as the backstop against concurrent fills.
func (s *FillService) FillWeek(ctx context.Context, req FillScheduleRequest) (*FillResult, error) {
	if req.StudyGroupID == "" || req.Date == "" {
		s.recordOutcome("missing_parameters")
		return nil, appErrors.ErrMissingParameters
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		s.recordOutcome("invalid_date")
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD format")
	}

	weekStart, weekEnd := models.WeekRange(date)

	exists, err := s.schedules.ExistsInRange(ctx, req.StudyGroupID, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing schedule")
	}
	if exists {
		s.recordOutcome("already_filled")
		return nil, appErrors.ErrAlreadyFilled
	}

	terms, err := s.terms.FindOverlapping(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve terms")
	}
	if len(terms) == 0 {
		s.recordOutcome("no_active_term")
		return nil, appErrors.ErrNoActiveTerm
	}

	slots := resolveSlots(weekStart, terms)
	if len(slots) == 0 {
		s.recordOutcome("no_active_term")
		return nil, appErrors.ErrNoActiveTerm
	}

	templates, err := s.templates.FindBySlots(ctx, req.StudyGroupID, slots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load templates")
	}
	if len(templates) == 0 {
		s.recordOutcome("no_template_found")
		return nil, appErrors.ErrNoTemplateFound
	}

	entries := make([]models.ScheduleEntry, 0, len(templates))
	for _, tpl := range templates {
		entries = append(entries, models.ScheduleEntry{
			StudyGroupID: tpl.StudyGroupID,
			Date:         weekStart.AddDate(0, 0, int(tpl.Weekday)),
			OrderNumber:  tpl.OrderNumber,
			SubjectID:    tpl.SubjectID,
		})
	}

	if err := s.schedules.CreateBatch(ctx, entries); err != nil {
		if repository.IsUniqueViolation(err) {
			// A concurrent fill won the race between the existence check and
			// the insert.
			s.recordOutcome("already_filled")
			return nil, appErrors.ErrAlreadyFilled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entries")
	}

	s.cache.InvalidateGroup(ctx, req.StudyGroupID)
	s.recordOutcome("filled")
	s.logger.Info("schedule filled from template",
		zap.String("study_group", req.StudyGroupID),
		zap.String("week_start", weekStart.Format("2006-01-02")),
		zap.Int("entries", len(entries)),
	)

	return &FillResult{
		Created:   len(entries),
		WeekStart: weekStart.Format("2006-01-02"),
		WeekEnd:   weekEnd.Format("2006-01-02"),
	}, nil
}

// resolveSlots pairs each day of the week with the first term covering it,
// in ascending start-date order. Days without a covering term are skipped.
func resolveSlots(weekStart time.Time, terms []models.Term) []models.TemplateSlot {
	slots := make([]models.TemplateSlot, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		for _, term := range terms {
			if term.Covers(day) {
				slots = append(slots, models.TemplateSlot{Weekday: models.Weekday(i), TermID: term.ID})
				break
			}
		}
	}
	return slots
}

func (s *FillService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordFillOutcome(outcome)
	}
}
