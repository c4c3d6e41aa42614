//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/pkg/database"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

// startPostgres runs a throwaway PostgreSQL with the schema applied.
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dataacademy"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	require.NoError(t, database.Migrate(ctx, db), "schema must apply twice")
	return db
}

func resetTables(t *testing.T, db *sqlx.DB) {
	t.Helper()
	_, err := db.Exec("TRUNCATE teacher, student, course, enrollment RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

type fixture struct {
	teachers    *TeacherRepository
	students    *StudentRepository
	courses     *CourseRepository
	enrollments *EnrollmentRepository
	catalog     *CatalogRepository
}

func newFixture(db *sqlx.DB) fixture {
	return fixture{
		teachers:    NewTeacherRepository(db),
		students:    NewStudentRepository(db),
		courses:     NewCourseRepository(db),
		enrollments: NewEnrollmentRepository(db),
		catalog:     NewCatalogRepository(db),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func (f fixture) teacher(t *testing.T, email string) int64 {
	t.Helper()
	teacher := &models.Teacher{FirstName: "Grace", LastName: "Hopper", Email: email}
	require.NoError(t, f.teachers.Create(context.Background(), teacher))
	return teacher.ID
}

func (f fixture) course(t *testing.T, title string, teacherID int64, start, end *time.Time) int64 {
	t.Helper()
	course := &models.Course{Title: title, Level: models.CourseLevelBeginner, Credits: 3, TeacherID: teacherID, StartDate: start, EndDate: end}
	require.NoError(t, f.courses.Create(context.Background(), course))
	return course.ID
}

func (f fixture) student(t *testing.T, first, last, email string) int64 {
	t.Helper()
	student := &models.Student{FirstName: first, LastName: last, Email: email, RegistrationDate: day(2024, 1, 10)}
	require.NoError(t, f.students.Create(context.Background(), student))
	return student.ID
}

func (f fixture) enroll(t *testing.T, studentID, courseID int64, status models.EnrollmentStatus, grade *models.Grade) int64 {
	t.Helper()
	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID, EnrollmentDate: day(2024, 2, 1), Status: status, FinalGrade: grade}
	require.NoError(t, f.enrollments.Create(context.Background(), enrollment))
	return enrollment.ID
}

func gradePtr(g models.Grade) *models.Grade { return &g }

func TestSchemaIntegration(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	f := newFixture(db)

	t.Run("enrollment counts include empty courses", func(t *testing.T) {
		resetTables(t, db)
		teacherID := f.teacher(t, "grace@example.com")
		full := f.course(t, "SQL Basics", teacherID, nil, nil)
		f.course(t, "Docker", teacherID, nil, nil)
		f.enroll(t, f.student(t, "Ada", "Lovelace", "ada@example.com"), full, models.EnrollmentStatusActive, nil)

		rows, err := f.catalog.EnrollmentCounts(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, models.CourseEnrollmentCount{CourseID: full, Title: "SQL Basics", StudentCount: 1}, rows[0])
		assert.Equal(t, "Docker", rows[1].Title)
		assert.Equal(t, 0, rows[1].StudentCount)
	})

	t.Run("grade outside enumeration is rejected", func(t *testing.T) {
		resetTables(t, db)
		courseID := f.course(t, "SQL", f.teacher(t, "grace@example.com"), nil, nil)
		studentID := f.student(t, "Ada", "Lovelace", "ada@example.com")

		err := f.enrollments.Create(ctx, &models.Enrollment{StudentID: studentID, CourseID: courseID, EnrollmentDate: day(2024, 2, 1), Status: models.EnrollmentStatusActive, FinalGrade: gradePtr("Z")})
		assert.ErrorIs(t, err, appErrors.ErrConstraintViolation)
	})

	t.Run("student delete cascades and teacher delete is restricted", func(t *testing.T) {
		resetTables(t, db)
		teacherID := f.teacher(t, "grace@example.com")
		courseID := f.course(t, "SQL", teacherID, nil, nil)
		studentID := f.student(t, "Ada", "Lovelace", "ada@example.com")
		f.enroll(t, studentID, courseID, models.EnrollmentStatusActive, nil)

		require.NoError(t, f.students.Delete(ctx, studentID))
		var remaining int
		require.NoError(t, db.Get(&remaining, "SELECT COUNT(*) FROM enrollment WHERE student_id = $1", studentID))
		assert.Zero(t, remaining)

		err := f.teachers.Delete(ctx, teacherID)
		require.ErrorIs(t, err, appErrors.ErrForeignKeyViolation)
		assert.Equal(t, "teacher still has courses", appErrors.FromError(err).Message)
	})

	t.Run("average grades skip ungraded courses", func(t *testing.T) {
		resetTables(t, db)
		teacherID := f.teacher(t, "grace@example.com")
		graded := f.course(t, "Graded", teacherID, nil, nil)
		ungraded := f.course(t, "Ungraded", teacherID, nil, nil)
		ada := f.student(t, "Ada", "Lovelace", "ada@example.com")
		alan := f.student(t, "Alan", "Turing", "alan@example.com")
		f.enroll(t, ada, graded, models.EnrollmentStatusCompleted, gradePtr(models.GradeA))
		f.enroll(t, alan, graded, models.EnrollmentStatusCompleted, gradePtr(models.GradeC))
		f.enroll(t, ada, ungraded, models.EnrollmentStatusActive, nil)

		rows, err := f.catalog.AverageGrades(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, graded, rows[0].CourseID)
		assert.InDelta(t, 4.00, rows[0].AvgGradePoints, 0.0001)
	})

	t.Run("duplicate email keeps the original row", func(t *testing.T) {
		resetTables(t, db)
		id := f.student(t, "Ada", "Lovelace", "ada@example.com")

		err := f.students.Create(ctx, &models.Student{FirstName: "Eve", LastName: "Other", Email: "ada@example.com", RegistrationDate: day(2024, 3, 1)})
		require.ErrorIs(t, err, appErrors.ErrDuplicateKey)

		stored, err := f.students.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ada", stored.FirstName)
		assert.True(t, stored.RegistrationDate.Equal(day(2024, 1, 10)))
	})

	t.Run("registration before 2000 is a constraint violation", func(t *testing.T) {
		resetTables(t, db)
		err := f.students.Create(ctx, &models.Student{FirstName: "Old", LastName: "Timer", Email: "old@example.com", RegistrationDate: day(1999, 12, 31)})
		assert.ErrorIs(t, err, appErrors.ErrConstraintViolation)
	})

	t.Run("second enrollment of the same pair is a duplicate", func(t *testing.T) {
		resetTables(t, db)
		courseID := f.course(t, "SQL", f.teacher(t, "grace@example.com"), nil, nil)
		studentID := f.student(t, "Ada", "Lovelace", "ada@example.com")
		f.enroll(t, studentID, courseID, models.EnrollmentStatusActive, nil)

		err := f.enrollments.Create(ctx, &models.Enrollment{StudentID: studentID, CourseID: courseID, EnrollmentDate: day(2024, 2, 2), Status: models.EnrollmentStatusActive})
		assert.ErrorIs(t, err, appErrors.ErrDuplicateKey)
	})

	t.Run("end to end roster and status breakdown", func(t *testing.T) {
		resetTables(t, db)
		teacherID := f.teacher(t, "grace@example.com")
		courseID := f.course(t, "Compilers", teacherID, nil, nil)
		ada := f.student(t, "Ada", "Lovelace", "ada@example.com")
		alan := f.student(t, "Alan", "Turing", "alan@example.com")
		f.enroll(t, alan, courseID, models.EnrollmentStatusActive, nil)
		f.enroll(t, ada, courseID, models.EnrollmentStatusCompleted, gradePtr(models.GradeB))

		roster, err := f.catalog.CourseRoster(ctx, courseID)
		require.NoError(t, err)
		require.Len(t, roster, 2)
		assert.Equal(t, "Lovelace", roster[0].LastName)
		assert.Equal(t, "Turing", roster[1].LastName)

		breakdown, err := f.catalog.StatusBreakdown(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.CourseStatusCount{
			{CourseID: courseID, Title: "Compilers", Status: models.EnrollmentStatusActive, EnrollmentCount: 1},
			{CourseID: courseID, Title: "Compilers", Status: models.EnrollmentStatusCompleted, EnrollmentCount: 1},
		}, breakdown)

		byTeacher, err := f.catalog.TeacherStatusBreakdown(ctx, teacherID)
		require.NoError(t, err)
		assert.Len(t, byTeacher, 2)
	})

	t.Run("future courses are relative to the supplied day", func(t *testing.T) {
		resetTables(t, db)
		today := day(2025, 6, 15)
		yesterday, tomorrow := today.AddDate(0, 0, -1), today.AddDate(0, 0, 1)
		teacherID := f.teacher(t, "grace@example.com")
		f.course(t, "Started", teacherID, &yesterday, &tomorrow)
		upcoming := f.course(t, "Upcoming", teacherID, &tomorrow, nil)

		future, err := f.catalog.FutureCourses(ctx, today)
		require.NoError(t, err)
		require.Len(t, future, 1)
		assert.Equal(t, upcoming, future[0].CourseID)

		active, err := f.catalog.ActiveCourses(ctx, today)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Started", active[0].Title)
		assert.Equal(t, 0, active[0].StudentCount)
	})

	t.Run("bulk load preserves ids and advances sequences", func(t *testing.T) {
		resetTables(t, db)
		bulk := NewBulkRepository(db)
		counts, err := bulk.Load(ctx, []models.TableData{{
			Name:    "teacher",
			Columns: []string{"id", "first_name", "last_name", "email", "bio"},
			Rows:    [][]interface{}{{int64(5), "Grace", "Hopper", "grace@example.com", nil}},
		}}, models.LoadOptions{Truncate: true})
		require.NoError(t, err)
		assert.Equal(t, 1, counts["teacher"])

		next := &models.Teacher{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"}
		require.NoError(t, f.teachers.Create(ctx, next))
		assert.Equal(t, int64(6), next.ID)
	})
}
