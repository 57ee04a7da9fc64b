package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
)

func studentRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "school_id", "name", "grade_label", "attendance", "grades", "behavior_notes", "created_at", "updated_at"}).
		AddRow("st1", "s1", "Bola Ahmed", "Primary 4", 42, "B+", "", now, now)
}

func TestListStudentsScopedWithSearch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	schoolID := "s1"
	mock.ExpectQuery("FROM students WHERE 1=1 AND school_id = \\$1 AND LOWER\\(name\\) LIKE \\$2 ORDER BY name ASC").
		WithArgs(schoolID, "%bola%").
		WillReturnRows(studentRows(time.Now()))

	students, err := repo.List(context.Background(), &schoolID, "Bola")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Bola Ahmed", students[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudentsWithoutSchoolSeesOnlyUnscoped(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students WHERE 1=1 AND school_id IS NULL ORDER BY name ASC").
		WillReturnRows(studentRows(time.Now()))

	_, err := repo.List(context.Background(), nil, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStudentOutsideScopeReportsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	schoolID := "other"
	mock.ExpectQuery("FROM students WHERE id = \\$1 AND school_id = \\$2").
		WithArgs("st1", schoolID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "st1", &schoolID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentZeroRowsReportsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	schoolID := "s1"
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1 AND school_id = $2")).
		WithArgs("missing", schoolID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing", &schoolID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollCourseIgnoresDuplicates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_courses (student_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
		WithArgs("st1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.EnrollCourse(context.Background(), "st1", "c1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{Name: "Bola Ahmed", GradeLabel: "Primary 4"}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
