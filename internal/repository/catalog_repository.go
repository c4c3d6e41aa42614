package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dataacademy-api/internal/models"
)

// CatalogRepository runs the fixed analytical read queries.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const enrollmentCountsQuery = `SELECT c.id AS course_id, c.title, COUNT(e.id) AS student_count
        FROM course c
        LEFT JOIN enrollment e ON e.course_id = c.id
        GROUP BY c.id, c.title
        ORDER BY student_count DESC, c.title`

// EnrollmentCounts counts enrolled students per course, including empty courses.
func (r *CatalogRepository) EnrollmentCounts(ctx context.Context) ([]models.CourseEnrollmentCount, error) {
	rows := []models.CourseEnrollmentCount{}
	if err := r.db.SelectContext(ctx, &rows, enrollmentCountsQuery); err != nil {
		return nil, fmt.Errorf("count enrollments per course: %w", err)
	}
	return rows, nil
}

// CourseRoster lists the students enrolled in a course.
func (r *CatalogRepository) CourseRoster(ctx context.Context, courseID int64) ([]models.RosterEntry, error) {
	const query = `SELECT s.id AS student_id, s.first_name, s.last_name, s.email, e.status, e.final_grade
        FROM enrollment e
        JOIN student s ON s.id = e.student_id
        WHERE e.course_id = $1
        ORDER BY s.last_name, s.first_name`
	rows := []models.RosterEntry{}
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list course roster: %w", err)
	}
	return rows, nil
}

// RosterByTitle lists the students of every course whose title contains the pattern.
func (r *CatalogRepository) RosterByTitle(ctx context.Context, pattern string) ([]models.TitleRosterEntry, error) {
	const query = `SELECT c.title, s.id AS student_id, s.first_name, s.last_name, s.email, e.status, e.final_grade
        FROM course c
        JOIN enrollment e ON e.course_id = c.id
        JOIN student s ON s.id = e.student_id
        WHERE c.title ILIKE $1
        ORDER BY c.title, s.last_name, s.first_name`
	rows := []models.TitleRosterEntry{}
	if err := r.db.SelectContext(ctx, &rows, query, ContainsPattern(pattern)); err != nil {
		return nil, fmt.Errorf("list roster by title: %w", err)
	}
	return rows, nil
}

const studentEnrollmentsQuery = `SELECT c.title AS course_title, c.level, e.enrollment_date, e.status, e.final_grade
        FROM enrollment e
        JOIN course c ON c.id = e.course_id
        WHERE e.student_id = $1
        ORDER BY e.enrollment_date DESC, c.title`

// StudentEnrollments lists a student's enrollments, newest first.
func (r *CatalogRepository) StudentEnrollments(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error) {
	rows := []models.StudentEnrollment{}
	if err := r.db.SelectContext(ctx, &rows, studentEnrollmentsQuery, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return rows, nil
}

// StatusBreakdown counts enrollments per course and status.
func (r *CatalogRepository) StatusBreakdown(ctx context.Context) ([]models.CourseStatusCount, error) {
	const query = `SELECT c.id AS course_id, c.title, e.status, COUNT(*) AS enrollment_count
        FROM course c
        JOIN enrollment e ON e.course_id = c.id
        GROUP BY c.id, c.title, e.status
        ORDER BY c.title, e.status`
	rows := []models.CourseStatusCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count enrollments per status: %w", err)
	}
	return rows, nil
}

// TeacherStatusBreakdown counts enrollments per status across one teacher's courses.
func (r *CatalogRepository) TeacherStatusBreakdown(ctx context.Context, teacherID int64) ([]models.StatusCount, error) {
	const query = `SELECT e.status, COUNT(*) AS enrollment_count
        FROM enrollment e
        JOIN course c ON c.id = e.course_id
        WHERE c.teacher_id = $1
        GROUP BY e.status
        ORDER BY e.status`
	rows := []models.StatusCount{}
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("count teacher enrollments per status: %w", err)
	}
	return rows, nil
}

// FutureCourses lists courses starting strictly after today.
func (r *CatalogRepository) FutureCourses(ctx context.Context, today time.Time) ([]models.UpcomingCourse, error) {
	const query = `SELECT c.id AS course_id, c.title, c.level, c.start_date, c.end_date,
        t.first_name || ' ' || t.last_name AS teacher_name
        FROM course c
        JOIN teacher t ON t.id = c.teacher_id
        WHERE c.start_date > $1::date
        ORDER BY c.start_date, c.id`
	rows := []models.UpcomingCourse{}
	if err := r.db.SelectContext(ctx, &rows, query, today.Format(models.DateLayout)); err != nil {
		return nil, fmt.Errorf("list future courses: %w", err)
	}
	return rows, nil
}

// ActiveCourses lists courses running today with their enrollment counts.
func (r *CatalogRepository) ActiveCourses(ctx context.Context, today time.Time) ([]models.RunningCourse, error) {
	const query = `SELECT c.id AS course_id, c.title, c.start_date, c.end_date, COUNT(e.id) AS student_count
        FROM course c
        LEFT JOIN enrollment e ON e.course_id = c.id
        WHERE c.start_date <= $1::date AND c.end_date >= $1::date
        GROUP BY c.id, c.title, c.start_date, c.end_date
        ORDER BY c.start_date, c.id`
	rows := []models.RunningCourse{}
	if err := r.db.SelectContext(ctx, &rows, query, today.Format(models.DateLayout)); err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	return rows, nil
}

// TopCompleted ranks courses by completed enrollments.
func (r *CatalogRepository) TopCompleted(ctx context.Context) ([]models.CourseCompletionCount, error) {
	const query = `SELECT c.id AS course_id, c.title, COUNT(*) AS completed_count
        FROM course c
        JOIN enrollment e ON e.course_id = c.id
        WHERE e.status = 'completed'
        GROUP BY c.id, c.title
        ORDER BY completed_count DESC, c.id
        LIMIT $1`
	rows := []models.CourseCompletionCount{}
	if err := r.db.SelectContext(ctx, &rows, query, models.TopCompletedLimit); err != nil {
		return nil, fmt.Errorf("rank completed courses: %w", err)
	}
	return rows, nil
}

// AverageGrades averages grade points per course over graded enrollments.
func (r *CatalogRepository) AverageGrades(ctx context.Context) ([]models.CourseGradeAverage, error) {
	query := fmt.Sprintf(`SELECT c.id AS course_id, c.title,
        ROUND(AVG(CASE e.final_grade %s END)::numeric, 2) AS avg_grade_points
        FROM course c
        JOIN enrollment e ON e.course_id = c.id
        WHERE e.final_grade IS NOT NULL
        GROUP BY c.id, c.title
        ORDER BY avg_grade_points DESC, c.title`, gradePointCases())
	rows := []models.CourseGradeAverage{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("average grades per course: %w", err)
	}
	return rows, nil
}

// gradePointCases renders the WHEN arms mapping letters to points.
func gradePointCases() string {
	arms := make([]string, 0, len(models.Grades))
	for _, grade := range models.Grades {
		points, _ := grade.Points()
		arms = append(arms, fmt.Sprintf("WHEN '%s' THEN %d", grade, points))
	}
	return strings.Join(arms, " ")
}
