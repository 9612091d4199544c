package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleTutor   UserRole = "TUTOR"
	RoleStudent UserRole = "STUDENT"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserProfile links a user to a study group. A checked profile must carry a
// study group.
type UserProfile struct {
	UserID       string    `db:"user_id" json:"user_id"`
	StudyGroupID *string   `db:"study_group_id" json:"study_group_id,omitempty"`
	Checked      bool      `db:"checked" json:"checked"`
	FullName     string    `db:"full_name" json:"full_name,omitempty"`
	Email        string    `db:"email" json:"email,omitempty"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role         *UserRole
	StudyGroupID string
	Active       *bool
	Search       string
	Page         int
	PageSize     int
}
