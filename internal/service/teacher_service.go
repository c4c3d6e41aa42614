package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type teacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListOptions(ctx context.Context) ([]models.TeacherOption, error)
	Delete(ctx context.Context, id int64) error
}

// CreateTeacherRequest holds payload for creating teachers.
type CreateTeacherRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Bio       *string `json:"bio"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// Create registers a teacher.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, wrapError(err, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "teacher email already registered")
	}
	teacher := &models.Teacher{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Bio: req.Bio}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, wrapError(err, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.Int64("teacher_id", teacher.ID))
	return teacher, nil
}

// Options lists teachers for filter drop-downs.
func (s *TeacherService) Options(ctx context.Context) ([]models.TeacherOption, error) {
	options, err := s.repo.ListOptions(ctx)
	if err != nil {
		return nil, wrapError(err, "failed to list teachers")
	}
	return options, nil
}

// Delete removes a teacher without courses.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "teacher not found", "failed to delete teacher")
	}
	s.logger.Info("teacher deleted", zap.Int64("teacher_id", id))
	return nil
}
