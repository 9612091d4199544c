package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestTermRepositoryOverlapsActiveExcludesSelf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTermRepository(db)
	dateFrom := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM terms WHERE active = TRUE AND date_from < $1 AND date_to > $2 AND id <> $3")).
		WithArgs(dateTo, dateFrom, "term-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	overlaps, err := repo.OverlapsActive(context.Background(), dateFrom, dateTo, "term-1")
	require.NoError(t, err)
	require.False(t, overlaps)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryOverlapsActiveHit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTermRepository(db)
	dateFrom := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM terms WHERE active = TRUE")).
		WithArgs(dateTo, dateFrom).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	overlaps, err := repo.OverlapsActive(context.Background(), dateFrom, dateTo, "")
	require.NoError(t, err)
	require.True(t, overlaps)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryFindOverlappingIgnoresActiveFlag(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTermRepository(db)
	weekStart := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	weekEnd := time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "name", "date_from", "date_to", "active", "created_at", "updated_at"}).
		AddRow("term-1", "Fall 2024", weekStart.AddDate(0, -1, 0), weekEnd.AddDate(0, 2, 0), false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM terms WHERE date_from <= $1 AND date_to >= $2 ORDER BY date_from ASC")).
		WithArgs(weekEnd, weekStart).
		WillReturnRows(rows)

	terms, err := repo.FindOverlapping(context.Background(), weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	require.False(t, terms[0].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}
