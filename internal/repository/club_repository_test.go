package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clubRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "school_id", "name", "description", "created_at", "updated_at"}).
		AddRow("cl1", "s1", "Chess Club", "", now, now)
}

func TestFindClubScopedToSchool(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	schoolID := "s1"
	mock.ExpectQuery("FROM clubs WHERE id = \\$1 AND school_id = \\$2").
		WithArgs("cl1", schoolID).
		WillReturnRows(clubRows(time.Now()))

	club, err := repo.FindByID(context.Background(), "cl1", &schoolID)
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", club.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindClubOutsideScopeReportsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClubRepository(db)

	schoolID := "other"
	mock.ExpectQuery("FROM clubs WHERE id = \\$1 AND school_id = \\$2").
		WithArgs("cl1", schoolID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "cl1", &schoolID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
