package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uniflow/uniflow-api/internal/models"
)

const markColumns = `m.id, m.schedule_id, m.student_id, u.full_name AS student_name, m.mark, m.created_at, m.updated_at`

// StudentMarkRepository handles persistence for per-session student marks.
type StudentMarkRepository struct {
	db *sqlx.DB
}

// NewStudentMarkRepository instantiates a mark repository.
func NewStudentMarkRepository(db *sqlx.DB) *StudentMarkRepository {
	return &StudentMarkRepository{db: db}
}

// ListBySchedule returns every mark of one class session.
func (r *StudentMarkRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.StudentMark, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_marks m JOIN users u ON u.id = m.student_id WHERE m.schedule_id = $1 ORDER BY u.full_name`, markColumns)
	var marks []models.StudentMark
	if err := r.db.SelectContext(ctx, &marks, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list student marks: %w", err)
	}
	return marks, nil
}

// FindByID loads a mark by identifier.
func (r *StudentMarkRepository) FindByID(ctx context.Context, id string) (*models.StudentMark, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_marks m JOIN users u ON u.id = m.student_id WHERE m.id = $1`, markColumns)
	var mark models.StudentMark
	if err := r.db.GetContext(ctx, &mark, query, id); err != nil {
		return nil, err
	}
	return &mark, nil
}

// Exists checks the (schedule, student) uniqueness constraint, optionally
// excluding a row.
func (r *StudentMarkRepository) Exists(ctx context.Context, scheduleID, studentID, excludeID string) (bool, error) {
	base := "SELECT 1 FROM student_marks WHERE schedule_id = $1 AND student_id = $2"
	args := []interface{}{scheduleID, studentID}
	if excludeID != "" {
		base += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check mark uniqueness: %w", err)
	}
	return true, nil
}

// CountBySchedules returns the number of marks per session for the tutor
// view of the weekly grid.
func (r *StudentMarkRepository) CountBySchedules(ctx context.Context, scheduleIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return counts, nil
	}

	const query = `SELECT schedule_id, COUNT(*) AS total FROM student_marks WHERE schedule_id = ANY($1) GROUP BY schedule_id`
	rows := []struct {
		ScheduleID string `db:"schedule_id"`
		Total      int    `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(scheduleIDs)); err != nil {
		return nil, fmt.Errorf("count marks: %w", err)
	}
	for _, row := range rows {
		counts[row.ScheduleID] = row.Total
	}
	return counts, nil
}

// MarksForStudent returns one student's marks per session for the student
// view of the weekly grid. Ungraded sessions are absent from the result.
func (r *StudentMarkRepository) MarksForStudent(ctx context.Context, scheduleIDs []string, studentID string) (map[string]int, error) {
	marks := make(map[string]int, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return marks, nil
	}

	const query = `SELECT schedule_id, mark FROM student_marks WHERE schedule_id = ANY($1) AND student_id = $2`
	rows := []struct {
		ScheduleID string `db:"schedule_id"`
		Mark       int    `db:"mark"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(scheduleIDs), studentID); err != nil {
		return nil, fmt.Errorf("load student marks: %w", err)
	}
	for _, row := range rows {
		marks[row.ScheduleID] = row.Mark
	}
	return marks, nil
}

// Create inserts a new mark.
func (r *StudentMarkRepository) Create(ctx context.Context, mark *models.StudentMark) error {
	if mark.ID == "" {
		mark.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mark.CreatedAt.IsZero() {
		mark.CreatedAt = now
	}
	mark.UpdatedAt = now

	const query = `INSERT INTO student_marks (id, schedule_id, student_id, mark, created_at, updated_at) VALUES (:id, :schedule_id, :student_id, :mark, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mark); err != nil {
		return fmt.Errorf("create student mark: %w", err)
	}
	return nil
}

// Update changes the mark value and student of an existing row.
func (r *StudentMarkRepository) Update(ctx context.Context, mark *models.StudentMark) error {
	mark.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_marks SET student_id = :student_id, mark = :mark, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, mark); err != nil {
		return fmt.Errorf("update student mark: %w", err)
	}
	return nil
}

// Delete removes a mark permanently.
func (r *StudentMarkRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM student_marks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student mark: %w", err)
	}
	return nil
}
