package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniflow/uniflow-api/internal/models"
)

const userColumns = "id, email, password_hash, full_name, role, active, last_login, created_at, updated_at"

// UserRepository handles persistence for users and their profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository instantiates a user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail loads a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users matching the filter.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	base := "FROM users u WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("u.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.StudyGroupID != "" {
		conditions = append(conditions, fmt.Sprintf("u.id IN (SELECT user_id FROM user_profiles WHERE study_group_id = $%d)", len(args)+1))
		args = append(args, filter.StudyGroupID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.email) LIKE $%d OR LOWER(u.full_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT u.id, u.email, u.password_hash, u.full_name, u.role, u.active, u.last_login, u.created_at, u.updated_at %s ORDER BY u.full_name LIMIT %d OFFSET %d", base, size, offset)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at) VALUES (:id, :email, :password_hash, :full_name, :role, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the most recent successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// GetProfile loads the profile of one user.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	const query = `SELECT p.user_id, p.study_group_id, p.checked, u.full_name, u.email, p.updated_at FROM user_profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = $1`
	var profile models.UserProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile creates or replaces the profile row of one user.
func (r *UserRepository) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO user_profiles (user_id, study_group_id, checked, updated_at) VALUES (:user_id, :study_group_id, :checked, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET study_group_id = EXCLUDED.study_group_id, checked = EXCLUDED.checked, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}
	return nil
}

// ListProfilesByGroup returns the checked profiles of one study group,
// used when listing students a mark can be recorded for.
func (r *UserRepository) ListProfilesByGroup(ctx context.Context, studyGroupID string) ([]models.UserProfile, error) {
	const query = `SELECT p.user_id, p.study_group_id, p.checked, u.full_name, u.email, p.updated_at FROM user_profiles p JOIN users u ON u.id = p.user_id WHERE p.study_group_id = $1 AND u.active = TRUE ORDER BY u.full_name`
	var profiles []models.UserProfile
	if err := r.db.SelectContext(ctx, &profiles, query, studyGroupID); err != nil {
		return nil, fmt.Errorf("list profiles by group: %w", err)
	}
	return profiles, nil
}
