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

const studyGroupColumns = "id, name, active, created_at, updated_at"

// StudyGroupRepository handles persistence for study groups.
type StudyGroupRepository struct {
	db *sqlx.DB
}

// NewStudyGroupRepository instantiates a study group repository.
func NewStudyGroupRepository(db *sqlx.DB) *StudyGroupRepository {
	return &StudyGroupRepository{db: db}
}

// List returns study groups matching the provided filters.
func (r *StudyGroupRepository) List(ctx context.Context, filter models.DictionaryFilter) ([]models.StudyGroup, int, error) {
	return listDictionary[models.StudyGroup](ctx, r.db, "study_groups", studyGroupColumns, filter)
}

// FindByID loads a study group by identifier.
func (r *StudyGroupRepository) FindByID(ctx context.Context, id string) (*models.StudyGroup, error) {
	query := fmt.Sprintf("SELECT %s FROM study_groups WHERE id = $1", studyGroupColumns)
	var group models.StudyGroup
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ExistsByName checks name uniqueness, optionally excluding a row.
func (r *StudyGroupRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	base := "SELECT 1 FROM study_groups WHERE name = $1"
	args := []interface{}{name}
	if excludeID != "" {
		base += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check study group uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new study group record.
func (r *StudyGroupRepository) Create(ctx context.Context, group *models.StudyGroup) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	const query = `INSERT INTO study_groups (id, name, active, created_at, updated_at) VALUES (:id, :name, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create study group: %w", err)
	}
	return nil
}

// Update modifies an existing study group.
func (r *StudyGroupRepository) Update(ctx context.Context, group *models.StudyGroup) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE study_groups SET name = :name, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("update study group: %w", err)
	}
	return nil
}

// Delete removes a study group; dependent templates, entries and profiles
// cascade at the database level.
func (r *StudyGroupRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM study_groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete study group: %w", err)
	}
	return nil
}
