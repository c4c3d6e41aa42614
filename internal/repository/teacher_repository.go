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

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// Create inserts a teacher and stores the generated id on it.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	const query = `INSERT INTO teacher (first_name, last_name, email, bio)
        VALUES (:first_name, :last_name, :email, :bio) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, teacher)
	if err != nil {
		return database.TranslateError(fmt.Errorf("create teacher: %w", err))
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&teacher.ID); err != nil {
			return fmt.Errorf("scan teacher id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return database.TranslateError(fmt.Errorf("create teacher: %w", err))
	}
	return nil
}

// ExistsByEmail reports whether a teacher already uses the email.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM teacher WHERE email = $1 LIMIT 1", email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher email: %w", err)
	}
	return true, nil
}

// ListOptions returns every teacher as an id/full name pair sorted by name.
func (r *TeacherRepository) ListOptions(ctx context.Context) ([]models.TeacherOption, error) {
	const query = `SELECT id, first_name || ' ' || last_name AS name FROM teacher ORDER BY name, id`
	options := []models.TeacherOption{}
	if err := r.db.SelectContext(ctx, &options, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return options, nil
}

// Delete removes a teacher. Teachers that still own courses are rejected by the schema.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "teacher", id)
}
