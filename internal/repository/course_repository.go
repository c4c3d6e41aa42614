package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/pkg/database"
)

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course and stores the generated id on it.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO course (title, description, level, credits, start_date, end_date, teacher_id)
        VALUES ($1, $2, $3, $4, $5::date, $6::date, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		course.Title,
		course.Description,
		course.Level,
		course.Credits,
		optionalDate(course.StartDate),
		optionalDate(course.EndDate),
		course.TeacherID,
	).Scan(&course.ID); err != nil {
		return database.TranslateError(fmt.Errorf("create course: %w", err))
	}
	return nil
}

// Stats returns the course overview with per-status enrollment counts, ordered by start date.
func (r *CourseRepository) Stats(ctx context.Context, filter models.CourseFilter) ([]models.CourseStats, error) {
	var conditions []string
	var args []interface{}

	if filter.TeacherID > 0 {
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if len(filter.Levels) > 0 {
		levels := make([]string, 0, len(filter.Levels))
		for _, level := range filter.Levels {
			levels = append(levels, string(level))
		}
		conditions = append(conditions, fmt.Sprintf("c.level = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(levels))
	}
	if filter.StartFrom != nil {
		conditions = append(conditions, fmt.Sprintf("c.start_date >= $%d::date", len(args)+1))
		args = append(args, filter.StartFrom.Format(models.DateLayout))
	}
	if filter.StartTo != nil {
		conditions = append(conditions, fmt.Sprintf("c.start_date <= $%d::date", len(args)+1))
		args = append(args, filter.StartTo.Format(models.DateLayout))
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT c.id, c.title, c.level, c.start_date, c.end_date,
        t.first_name || ' ' || t.last_name AS teacher_name,
        COUNT(e.id) AS total_enrollments,
        COUNT(e.id) FILTER (WHERE e.status = 'active') AS active_count,
        COUNT(e.id) FILTER (WHERE e.status = 'completed') AS completed_count,
        COUNT(e.id) FILTER (WHERE e.status = 'dropped') AS dropped_count
        FROM course c
        JOIN teacher t ON t.id = c.teacher_id
        LEFT JOIN enrollment e ON e.course_id = c.id%s
        GROUP BY c.id, t.first_name, t.last_name
        ORDER BY c.start_date NULLS LAST, c.id`, clause)

	stats := []models.CourseStats{}
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("list course stats: %w", err)
	}
	return stats, nil
}

// Delete removes a course; enrollments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "course", id)
}
