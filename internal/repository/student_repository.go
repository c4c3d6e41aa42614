package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/pkg/database"
)

// DefaultExampleStudents is the number of students returned when no search term is given.
const DefaultExampleStudents = 10

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student and stores the generated id on it.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO student (first_name, last_name, email, registration_date)
        VALUES ($1, $2, $3, $4::date) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.RegistrationDate.Format(models.DateLayout),
	).Scan(&student.ID); err != nil {
		return database.TranslateError(fmt.Errorf("create student: %w", err))
	}
	return nil
}

// ExistsByEmail reports whether a student already uses the email.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM student WHERE email = $1 LIMIT 1", email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT id, first_name, last_name, email, registration_date FROM student WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindIDByEmail resolves the id of the student with the exact email.
func (r *StudentRepository) FindIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	if err := r.db.GetContext(ctx, &id, "SELECT id FROM student WHERE email = $1", email); err != nil {
		return 0, err
	}
	return id, nil
}

// Search matches first name, last name, email or "first last" case-insensitively.
// An empty term returns the first students by id.
func (r *StudentRepository) Search(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students := []models.Student{}
	if filter.Search == "" {
		const query = `SELECT id, first_name, last_name, email, registration_date FROM student ORDER BY id LIMIT $1`
		if err := r.db.SelectContext(ctx, &students, query, DefaultExampleStudents); err != nil {
			return nil, fmt.Errorf("list students: %w", err)
		}
		return students, nil
	}

	const query = `SELECT id, first_name, last_name, email, registration_date
        FROM student
        WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR (first_name || ' ' || last_name) ILIKE $1
        ORDER BY last_name, first_name
        LIMIT $2`
	if err := r.db.SelectContext(ctx, &students, query, ContainsPattern(filter.Search), filter.Limit); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}

// Enrollments lists the enrollments of a student, newest first.
func (r *StudentRepository) Enrollments(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error) {
	enrollments := []models.StudentEnrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, studentEnrollmentsQuery, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// Delete removes a student; enrollments cascade.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "student", id)
}
