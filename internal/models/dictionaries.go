package models

import "time"

// StudyGroup is a cohort of students sharing one timetable. Inactive groups
// stay in the database but are excluded from selection lists.
type StudyGroup struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Term is a bounded academic date range within which schedule templates
// apply. Active terms must not overlap.
type Term struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	DateFrom  time.Time `db:"date_from" json:"date_from"`
	DateTo    time.Time `db:"date_to" json:"date_to"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Covers reports whether the date falls inside the term's inclusive range.
func (t Term) Covers(date time.Time) bool {
	return !date.Before(t.DateFrom) && !date.After(t.DateTo)
}

// Subject is a taught discipline referenced by templates and schedule
// entries.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DictionaryFilter captures the common filters of the dictionary list
// endpoints.
type DictionaryFilter struct {
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
