package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/pkg/database"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts one enrollment as a standalone statement, so each call commits or fails on its own.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollment (student_id, course_id, enrollment_date, status, final_grade)
        VALUES ($1, $2, $3::date, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		enrollment.StudentID,
		enrollment.CourseID,
		enrollment.EnrollmentDate.Format(models.DateLayout),
		enrollment.Status,
		enrollment.FinalGrade,
	).Scan(&enrollment.ID); err != nil {
		return database.TranslateError(fmt.Errorf("create enrollment: %w", err))
	}
	return nil
}

// FindByID fetches an enrollment by id.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, enrollment_date, status, final_grade FROM enrollment WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateOutcome sets status and final grade. A missing enrollment yields sql.ErrNoRows.
func (r *EnrollmentRepository) UpdateOutcome(ctx context.Context, id int64, status models.EnrollmentStatus, grade *models.Grade) error {
	const query = `UPDATE enrollment SET status = $2, final_grade = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, grade)
	if err != nil {
		return database.TranslateError(fmt.Errorf("update enrollment: %w", err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
