package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dataacademy-api/internal/models"
)

// InsightRepository aggregates the dashboard summary charts.
type InsightRepository struct {
	db *sqlx.DB
}

// NewInsightRepository constructs an InsightRepository.
func NewInsightRepository(db *sqlx.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// StudentsPerCourse shares the catalog's enrollment count query.
func (r *InsightRepository) StudentsPerCourse(ctx context.Context) ([]models.CourseEnrollmentCount, error) {
	rows := []models.CourseEnrollmentCount{}
	if err := r.db.SelectContext(ctx, &rows, enrollmentCountsQuery); err != nil {
		return nil, fmt.Errorf("count students per course: %w", err)
	}
	return rows, nil
}

// StatusDistribution counts all enrollments per status.
func (r *InsightRepository) StatusDistribution(ctx context.Context) ([]models.StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS enrollment_count
        FROM enrollment
        GROUP BY status
        ORDER BY enrollment_count DESC, status`
	rows := []models.StatusCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count enrollment statuses: %w", err)
	}
	return rows, nil
}

// ActiveByLevel counts active enrollments per course level.
func (r *InsightRepository) ActiveByLevel(ctx context.Context) ([]models.LevelActiveCount, error) {
	const query = `SELECT c.level, COUNT(*) AS active_enrollments
        FROM enrollment e
        JOIN course c ON c.id = e.course_id
        WHERE e.status = 'active'
        GROUP BY c.level
        ORDER BY active_enrollments DESC, c.level`
	rows := []models.LevelActiveCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count active enrollments per level: %w", err)
	}
	return rows, nil
}

// CoursesPerTeacher counts courses per teacher, including teachers without courses.
func (r *InsightRepository) CoursesPerTeacher(ctx context.Context) ([]models.TeacherCourseCount, error) {
	const query = `SELECT t.id AS teacher_id, t.first_name || ' ' || t.last_name AS teacher_name, COUNT(c.id) AS course_count
        FROM teacher t
        LEFT JOIN course c ON c.teacher_id = t.id
        GROUP BY t.id, t.first_name, t.last_name
        ORDER BY course_count DESC, teacher_name`
	rows := []models.TeacherCourseCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count courses per teacher: %w", err)
	}
	return rows, nil
}
