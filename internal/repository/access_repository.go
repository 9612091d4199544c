package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/uniflow/uniflow-api/internal/models"
)

// AccessRepository persists the role and capability catalog.
type AccessRepository struct {
	db *sqlx.DB
}

// NewAccessRepository instantiates an access repository.
func NewAccessRepository(db *sqlx.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// EnsureRoles idempotently seeds the roles and role_capabilities tables from
// the static capability table. Safe to run on every startup.
func (r *AccessRepository) EnsureRoles(ctx context.Context, table map[models.UserRole][]models.Capability) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin role bootstrap tx: %w", err)
	}

	for role, caps := range table {
		if _, err := tx.ExecContext(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed role %s: %w", role, err)
		}
		for _, cap := range caps {
			if _, err := tx.ExecContext(ctx, `INSERT INTO role_capabilities (role_name, capability) VALUES ($1, $2) ON CONFLICT (role_name, capability) DO NOTHING`, role, cap); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("seed capability %s for %s: %w", cap, role, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit role bootstrap tx: %w", err)
	}
	return nil
}
