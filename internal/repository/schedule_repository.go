package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniflow/uniflow-api/internal/models"
)

const scheduleColumns = `e.id, e.study_group_id, e.date, e.order_number, e.subject_id, s.name AS subject_name, e.homework, e.created_at, e.updated_at`

// ScheduleRepository handles persistence for materialized schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository instantiates a schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListWeek returns the entries of one study group within [weekStart,
// weekEnd].
func (r *ScheduleRepository) ListWeek(ctx context.Context, studyGroupID string, weekStart, weekEnd time.Time) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries e JOIN subjects s ON s.id = e.subject_id WHERE e.study_group_id = $1 AND e.date BETWEEN $2 AND $3 ORDER BY e.date, e.order_number`, scheduleColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, studyGroupID, weekStart, weekEnd); err != nil {
		return nil, fmt.Errorf("list week schedule: %w", err)
	}
	return entries, nil
}

// ExistsInRange reports whether any entry exists for the group within the
// date range. Materialization uses this as its idempotency guard.
func (r *ScheduleRepository) ExistsInRange(ctx context.Context, studyGroupID string, weekStart, weekEnd time.Time) (bool, error) {
	const query = `SELECT 1 FROM schedule_entries WHERE study_group_id = $1 AND date BETWEEN $2 AND $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studyGroupID, weekStart, weekEnd); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check schedule existence: %w", err)
	}
	return true, nil
}

// FindByID loads an entry by identifier.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries e JOIN subjects s ON s.id = e.subject_id WHERE e.id = $1`, scheduleColumns)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a single schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO schedule_entries (id, study_group_id, date, order_number, subject_id, homework, created_at, updated_at) VALUES (:id, :study_group_id, :date, :order_number, :subject_id, :homework, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// CreateBatch inserts the given entries inside one transaction. Either every
// entry is persisted or none is; the unique (group, date, order) constraint
// acts as the backstop against concurrent fills.
func (r *ScheduleRepository) CreateBatch(ctx context.Context, entries []models.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fill tx: %w", err)
	}

	const query = `INSERT INTO schedule_entries (id, study_group_id, date, order_number, subject_id, homework, created_at, updated_at) VALUES (:id, :study_group_id, :date, :order_number, :subject_id, :homework, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fill tx: %w", err)
	}
	return nil
}

// Update changes the mutable fields of an entry (subject and homework).
// Group, date and order number are fixed after creation.
func (r *ScheduleRepository) Update(ctx context.Context, id, subjectID, homework string) error {
	const query = `UPDATE schedule_entries SET subject_id = $2, homework = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, subjectID, homework, time.Now().UTC()); err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	return nil
}

// Delete removes an entry; its marks cascade at the database level.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}
