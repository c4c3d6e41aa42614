package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dataacademy-api/internal/models"
)

func TestCatalogEnrollmentCountsKeepsEmptyCourses(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN enrollment e ON e.course_id = c.id")).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "student_count"}).
			AddRow(1, "SQL Basics", 2).
			AddRow(2, "Docker", 0))

	rows, err := repo.EnrollmentCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[1].StudentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogCourseRoster(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.course_id = $1\n        ORDER BY s.last_name, s.first_name")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "email", "status", "final_grade"}).
			AddRow(1, "Ada", "Lovelace", "ada@example.com", "completed", "A").
			AddRow(2, "Alan", "Turing", "alan@example.com", "active", nil))

	rows, err := repo.CourseRoster(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].FinalGrade)
	assert.Equal(t, models.GradeA, *rows[0].FinalGrade)
	assert.Nil(t, rows[1].FinalGrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRosterByTitleEscapesPattern(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.title ILIKE $1")).
		WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"title", "student_id", "first_name", "last_name", "email", "status", "final_grade"}))

	rows, err := repo.RosterByTitle(context.Background(), "100%")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogDateQueriesUseSuppliedDay(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	today := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.start_date > $1::date")).
		WithArgs("2025-06-15").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "level", "start_date", "end_date", "teacher_name"}).
			AddRow(4, "Kubernetes", "Advanced", today.AddDate(0, 0, 1), nil, "Grace Hopper"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.start_date <= $1::date AND c.end_date >= $1::date")).
		WithArgs("2025-06-15").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "start_date", "end_date", "student_count"}).
			AddRow(2, "Go", today.AddDate(0, -1, 0), today.AddDate(0, 1, 0), 0))

	future, err := repo.FutureCourses(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, "Grace Hopper", future[0].TeacherName)

	active, err := repo.ActiveCourses(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 0, active[0].StudentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogTopCompletedLimit(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.status = 'completed'")).
		WithArgs(models.TopCompletedLimit).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "completed_count"}).AddRow(1, "SQL", 4))

	rows, err := repo.TopCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.CourseCompletionCount{{CourseID: 1, Title: "SQL", CompletedCount: 4}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogAverageGrades(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ROUND(AVG(CASE e.final_grade WHEN 'A' THEN 5 WHEN 'B' THEN 4 WHEN 'C' THEN 3 WHEN 'D' THEN 2 WHEN 'E' THEN 1 WHEN 'F' THEN 0 END)::numeric, 2)")).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "avg_grade_points"}).AddRow(1, "SQL", []byte("4.00")))

	rows, err := repo.AverageGrades(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 4.0, rows[0].AvgGradePoints, 0.001)
	assert.Equal(t, []string{"1", "SQL", "4.00"}, rows[0].Record())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogTeacherStatusBreakdown(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.teacher_id = $1\n        GROUP BY e.status")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "enrollment_count"}).AddRow("active", 3).AddRow("dropped", 1))

	rows, err := repo.TeacherStatusBreakdown(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, []models.StatusCount{{Status: models.EnrollmentStatusActive, EnrollmentCount: 3}, {Status: models.EnrollmentStatusDropped, EnrollmentCount: 1}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
