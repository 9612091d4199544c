package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniflow/uniflow-api/internal/grid"
	"github.com/uniflow/uniflow-api/internal/models"
	"github.com/uniflow/uniflow-api/internal/repository"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
	"github.com/uniflow/uniflow-api/pkg/export"
)

type scheduleRepo interface {
	ListWeek(ctx context.Context, studyGroupID string, weekStart, weekEnd time.Time) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, id, subjectID, homework string) error
	Delete(ctx context.Context, id string) error
}

type markAggregateRepo interface {
	CountBySchedules(ctx context.Context, scheduleIDs []string) (map[string]int, error)
	MarksForStudent(ctx context.Context, scheduleIDs []string, studentID string) (map[string]int, error)
}

type profileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// WeekGridQuery filters the live schedule grid.
type WeekGridQuery struct {
	StudyGroupID string
	Date         string
}

// WeekGridResult is the projected week plus the empty-table flag used by the
// listing endpoint.
type WeekGridResult struct {
	Week       grid.ScheduleWeek `json:"week"`
	WeekStart  string            `json:"week_start"`
	WeekEnd    string            `json:"week_end"`
	TableEmpty bool              `json:"table_empty"`
}

// CreateScheduleRequest adds a single concrete class session.
type CreateScheduleRequest struct {
	StudyGroupID string `json:"study_group" validate:"required"`
	Date         string `json:"date" validate:"required"`
	OrderNumber  int    `json:"order_number" validate:"required,min=1,max=10"`
	SubjectID    string `json:"subject" validate:"required"`
	Homework     string `json:"homework"`
}

// UpdateScheduleRequest changes the mutable fields of a session. Identity
// fields (group, date, order) are fixed after creation.
type UpdateScheduleRequest struct {
	SubjectID string `json:"subject" validate:"required"`
	Homework  string `json:"homework"`
}

// ScheduleService orchestrates the live weekly schedule.
type ScheduleService struct {
	schedules scheduleRepo
	marks     markAggregateRepo
	profiles  profileReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(schedules scheduleRepo, marks markAggregateRepo, profiles profileReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		schedules: schedules,
		marks:     marks,
		profiles:  profiles,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

func emptyGrid() *WeekGridResult {
	return &WeekGridResult{
		Week:       grid.ProjectSchedule(nil, time.Time{}, nil),
		TableEmpty: true,
	}
}

// WeekGrid returns the dense Monday-Sunday grid of one study group for the
// week containing the requested date. Students are always scoped to their
// own group and see their own mark per session; tutors see the number of
// recorded marks. Missing filters yield an empty grid with TableEmpty set
// rather than an error, matching the listing contract.
func (s *ScheduleService) WeekGrid(ctx context.Context, query WeekGridQuery, viewer *models.JWTClaims) (*WeekGridResult, error) {
	groupID := query.StudyGroupID
	studentID := ""

	if viewer != nil && viewer.Role == models.RoleStudent {
		profile, err := s.profiles.GetProfile(ctx, viewer.UserID)
		if err != nil {
			if err == sql.ErrNoRows {
				return emptyGrid(), nil
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
		}
		if profile.StudyGroupID == nil {
			return emptyGrid(), nil
		}
		groupID = *profile.StudyGroupID
		studentID = viewer.UserID
	}

	if groupID == "" || query.Date == "" {
		return emptyGrid(), nil
	}

	date, err := time.Parse("2006-01-02", query.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD format")
	}
	weekStart, weekEnd := models.WeekRange(date)

	viewerKey := "tutor"
	if studentID != "" {
		viewerKey = studentID
	}
	cacheKey := WeekGridKey(groupID, weekStart.Format("2006-01-02"), viewerKey)
	cached := &WeekGridResult{}
	if s.cache.Get(ctx, cacheKey, cached) {
		return cached, nil
	}

	entries, err := s.schedules.ListWeek(ctx, groupID, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	var aggregates map[string]int
	if studentID != "" {
		aggregates, err = s.marks.MarksForStudent(ctx, ids, studentID)
	} else {
		aggregates, err = s.marks.CountBySchedules(ctx, ids)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate marks")
	}

	result := &WeekGridResult{
		Week:       grid.ProjectSchedule(entries, weekStart, aggregates),
		WeekStart:  weekStart.Format("2006-01-02"),
		WeekEnd:    weekEnd.Format("2006-01-02"),
		TableEmpty: len(entries) == 0,
	}
	s.cache.Set(ctx, cacheKey, result)
	return result, nil
}

// Get returns a single schedule entry.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	entry, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	return entry, nil
}

// Create adds a single session outside the template flow.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD format")
	}

	entry := &models.ScheduleEntry{
		StudyGroupID: req.StudyGroupID,
		Date:         date,
		OrderNumber:  req.OrderNumber,
		SubjectID:    req.SubjectID,
		Homework:     req.Homework,
	}
	if err := s.schedules.Create(ctx, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a session already occupies this date and order number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}

	s.cache.InvalidateGroup(ctx, req.StudyGroupID)
	return entry, nil
}

// Update changes subject and homework of an existing session.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.schedules.Update(ctx, id, req.SubjectID, req.Homework); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}

	entry.SubjectID = req.SubjectID
	entry.Homework = req.Homework
	s.cache.InvalidateGroup(ctx, entry.StudyGroupID)
	return entry, nil
}

// Delete removes a session and its marks.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.schedules.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	s.cache.InvalidateGroup(ctx, entry.StudyGroupID)
	return nil
}

// ExportWeek renders the weekly grid as a tabular dataset for the CSV and
// PDF exporters: one row per order number, one column per weekday.
func (s *ScheduleService) ExportWeek(ctx context.Context, query WeekGridQuery, viewer *models.JWTClaims) (export.Dataset, string, error) {
	result, err := s.WeekGrid(ctx, query, viewer)
	if err != nil {
		return export.Dataset{}, "", err
	}

	headers := []string{"Order"}
	for wd := models.Monday; wd <= models.Sunday; wd++ {
		day := result.Week[wd]
		headers = append(headers, fmt.Sprintf("%s %s", day.Label, day.Date))
	}

	rows := make([]map[string]string, 0, models.MaxOrderNumber)
	for order := models.MinOrderNumber; order <= models.MaxOrderNumber; order++ {
		row := map[string]string{"Order": fmt.Sprintf("%d", order)}
		for wd := models.Monday; wd <= models.Sunday; wd++ {
			day := result.Week[wd]
			row[fmt.Sprintf("%s %s", day.Label, day.Date)] = day.Slots[order].SubjectName
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("Schedule %s - %s", result.WeekStart, result.WeekEnd)
	return export.Dataset{Headers: headers, Rows: rows}, title, nil
}
