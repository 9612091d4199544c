package models

import "time"

// Bounds shared by templates, schedule entries and marks.
const (
	MinOrderNumber = 1
	MaxOrderNumber = 10
	MinMark        = 0
	MaxMark        = 100
)

// ScheduleTemplate is a recurring weekly slot (weekday + order number)
// assigned a subject for a given term and study group. At most one subject
// per slot per template.
type ScheduleTemplate struct {
	ID           string    `db:"id" json:"id"`
	TermID       string    `db:"term_id" json:"term_id"`
	StudyGroupID string    `db:"study_group_id" json:"study_group_id"`
	Weekday      Weekday   `db:"weekday" json:"weekday"`
	OrderNumber  int       `db:"order_number" json:"order_number"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	SubjectName  string    `db:"subject_name" json:"subject_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TemplateSlot identifies one (weekday, term) combination of the target week
// during materialization.
type TemplateSlot struct {
	Weekday Weekday
	TermID  string
}

// ScheduleEntry is a materialized, dated class session. Entries are
// independent of the template that produced them.
type ScheduleEntry struct {
	ID           string    `db:"id" json:"id"`
	StudyGroupID string    `db:"study_group_id" json:"study_group_id"`
	Date         time.Time `db:"date" json:"date"`
	OrderNumber  int       `db:"order_number" json:"order_number"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	SubjectName  string    `db:"subject_name" json:"subject_name,omitempty"`
	Homework     string    `db:"homework" json:"homework"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentMark records one mark per student per class session.
type StudentMark struct {
	ID          string    `db:"id" json:"id"`
	ScheduleID  string    `db:"schedule_id" json:"schedule_id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name,omitempty"`
	Mark        int       `db:"mark" json:"mark"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
