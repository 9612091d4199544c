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

const termColumns = "id, name, date_from, date_to, active, created_at, updated_at"

// TermRepository handles persistence for academic terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns terms matching the provided filters.
func (r *TermRepository) List(ctx context.Context, filter models.DictionaryFilter) ([]models.Term, int, error) {
	if filter.SortBy == "" {
		filter.SortBy = "date_from"
	}
	return listDictionary[models.Term](ctx, r.db, "terms", termColumns, filter)
}

// FindByID loads a term by identifier.
func (r *TermRepository) FindByID(ctx context.Context, id string) (*models.Term, error) {
	query := fmt.Sprintf("SELECT %s FROM terms WHERE id = $1", termColumns)
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// ExistsByName checks name uniqueness, optionally excluding a row.
func (r *TermRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	base := "SELECT 1 FROM terms WHERE name = $1"
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
		return false, fmt.Errorf("check term uniqueness: %w", err)
	}
	return true, nil
}

// OverlapsActive reports whether an active term overlaps [dateFrom, dateTo],
// optionally excluding a row. Used to reject overlapping active terms on
// save.
func (r *TermRepository) OverlapsActive(ctx context.Context, dateFrom, dateTo time.Time, excludeID string) (bool, error) {
	base := "SELECT 1 FROM terms WHERE active = TRUE AND date_from < $1 AND date_to > $2"
	args := []interface{}{dateTo, dateFrom}
	if excludeID != "" {
		base += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check term overlap: %w", err)
	}
	return true, nil
}

// FindOverlapping returns every term whose range intersects the window,
// ordered by start date. The active flag is not part of this query, so a
// soft-disabled term can still materialize schedules.
func (r *TermRepository) FindOverlapping(ctx context.Context, weekStart, weekEnd time.Time) ([]models.Term, error) {
	query := fmt.Sprintf("SELECT %s FROM terms WHERE date_from <= $1 AND date_to >= $2 ORDER BY date_from ASC", termColumns)
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, weekEnd, weekStart); err != nil {
		return nil, fmt.Errorf("find overlapping terms: %w", err)
	}
	return terms, nil
}

// Create inserts a new term record.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if term.CreatedAt.IsZero() {
		term.CreatedAt = now
	}
	term.UpdatedAt = now

	const query = `INSERT INTO terms (id, name, date_from, date_to, active, created_at, updated_at) VALUES (:id, :name, :date_from, :date_to, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, term); err != nil {
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}

// Update modifies an existing term.
func (r *TermRepository) Update(ctx context.Context, term *models.Term) error {
	term.UpdatedAt = time.Now().UTC()
	const query = `UPDATE terms SET name = :name, date_from = :date_from, date_to = :date_to, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, term); err != nil {
		return fmt.Errorf("update term: %w", err)
	}
	return nil
}

// Delete removes a term; dependent templates cascade at the database level.
func (r *TermRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM terms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete term: %w", err)
	}
	return nil
}
