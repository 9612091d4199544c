package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniflow/uniflow-api/internal/models"
)

const templateColumns = `t.id, t.term_id, t.study_group_id, t.weekday, t.order_number, t.subject_id, s.name AS subject_name, t.created_at, t.updated_at`

// ScheduleTemplateRepository handles persistence for weekly schedule
// templates.
type ScheduleTemplateRepository struct {
	db *sqlx.DB
}

// NewScheduleTemplateRepository instantiates a template repository.
func NewScheduleTemplateRepository(db *sqlx.DB) *ScheduleTemplateRepository {
	return &ScheduleTemplateRepository{db: db}
}

// ListByTermAndGroup returns every template row of one term and study group.
func (r *ScheduleTemplateRepository) ListByTermAndGroup(ctx context.Context, termID, studyGroupID string) ([]models.ScheduleTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_templates t JOIN subjects s ON s.id = t.subject_id WHERE t.term_id = $1 AND t.study_group_id = $2 ORDER BY t.weekday, t.order_number`, templateColumns)
	var templates []models.ScheduleTemplate
	if err := r.db.SelectContext(ctx, &templates, query, termID, studyGroupID); err != nil {
		return nil, fmt.Errorf("list schedule templates: %w", err)
	}
	return templates, nil
}

// FindBySlots returns the templates of a study group matching any of the
// given (weekday, term) combinations. The conditions are ORed together, the
// way materialization matches one term per day of the target week.
func (r *ScheduleTemplateRepository) FindBySlots(ctx context.Context, studyGroupID string, slots []models.TemplateSlot) ([]models.ScheduleTemplate, error) {
	if len(slots) == 0 {
		return nil, nil
	}

	args := []interface{}{studyGroupID}
	conditions := make([]string, 0, len(slots))
	for _, slot := range slots {
		conditions = append(conditions, fmt.Sprintf("(t.weekday = $%d AND t.term_id = $%d)", len(args)+1, len(args)+2))
		args = append(args, int(slot.Weekday), slot.TermID)
	}

	query := fmt.Sprintf(`SELECT %s FROM schedule_templates t JOIN subjects s ON s.id = t.subject_id WHERE t.study_group_id = $1 AND (%s) ORDER BY t.weekday, t.order_number`,
		templateColumns, strings.Join(conditions, " OR "))

	var templates []models.ScheduleTemplate
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, fmt.Errorf("find templates by slots: %w", err)
	}
	return templates, nil
}

// FindByID loads a template by identifier.
func (r *ScheduleTemplateRepository) FindByID(ctx context.Context, id string) (*models.ScheduleTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_templates t JOIN subjects s ON s.id = t.subject_id WHERE t.id = $1`, templateColumns)
	var template models.ScheduleTemplate
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		return nil, err
	}
	return &template, nil
}

// ExistsForSlot checks the (term, group, weekday, order) uniqueness
// constraint, optionally excluding a row.
func (r *ScheduleTemplateRepository) ExistsForSlot(ctx context.Context, termID, studyGroupID string, weekday models.Weekday, orderNumber int, excludeID string) (bool, error) {
	base := "SELECT 1 FROM schedule_templates WHERE term_id = $1 AND study_group_id = $2 AND weekday = $3 AND order_number = $4"
	args := []interface{}{termID, studyGroupID, int(weekday), orderNumber}
	if excludeID != "" {
		base += " AND id <> $5"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check template slot uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new template row.
func (r *ScheduleTemplateRepository) Create(ctx context.Context, template *models.ScheduleTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	const query = `INSERT INTO schedule_templates (id, term_id, study_group_id, weekday, order_number, subject_id, created_at, updated_at) VALUES (:id, :term_id, :study_group_id, :weekday, :order_number, :subject_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("create schedule template: %w", err)
	}
	return nil
}

// UpdateSubject changes the subject of an existing slot. Identity fields
// (term, group, weekday, order) are fixed after creation; only the subject
// is mutable on the edit path.
func (r *ScheduleTemplateRepository) UpdateSubject(ctx context.Context, id, subjectID string) error {
	const query = `UPDATE schedule_templates SET subject_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, subjectID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update schedule template: %w", err)
	}
	return nil
}

// Delete removes a template row. Already-materialized schedule entries are
// unaffected.
func (r *ScheduleTemplateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule template: %w", err)
	}
	return nil
}
