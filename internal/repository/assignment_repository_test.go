package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
)

func assignmentRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "course_id", "school_id", "title", "description", "due_date", "created_at", "updated_at", "course_name"}).
		AddRow("a1", "c1", "s1", "Homework 3", "", now, now, now, "Mathematics")
}

func TestListForStudentsExpandsInClause(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	schoolID := "s1"
	mock.ExpectQuery("SELECT DISTINCT a.id, .+ WHERE sc.student_id IN \\(\\$1, \\$2\\) AND a.school_id = \\$3 ORDER BY a.due_date DESC").
		WithArgs("st1", "st2", schoolID).
		WillReturnRows(assignmentRows(time.Now()))

	assignments, err := repo.ListForStudents(context.Background(), []string{"st1", "st2"}, &schoolID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Mathematics", assignments[0].CourseName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForStudentsEmptyInputShortCircuits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	assignments, err := repo.ListForStudents(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO assignments").WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{CourseID: "c1", Title: "Homework 3", DueDate: time.Now()}
	err := repo.Create(context.Background(), assignment)
	require.NoError(t, err)
	assert.NotEmpty(t, assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
