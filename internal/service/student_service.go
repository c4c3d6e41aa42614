package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/dto"
	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Search(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Enrollments(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error)
	Delete(ctx context.Context, id int64) error
}

type enroller interface {
	Enroll(ctx context.Context, req CreateEnrollmentRequest) (*dto.BatchEnrollmentResult, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FirstName        string       `json:"first_name" validate:"required"`
	LastName         string       `json:"last_name" validate:"required"`
	Email            string       `json:"email" validate:"required,email"`
	RegistrationDate *models.Date `json:"registration_date"`
	CourseIDs        []int64      `json:"course_ids" validate:"omitempty,dive,gt=0"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo        studentRepository
	enrollments enroller
	validator   *validator.Validate
	logger      *zap.Logger
	searchLimit int
	now         func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, enrollments enroller, validate *validator.Validate, logger *zap.Logger, searchLimit int) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if searchLimit <= 0 {
		searchLimit = 50
	}
	return &StudentService{repo: repo, enrollments: enrollments, validator: validate, logger: logger, searchLimit: searchLimit, now: time.Now}
}

// WithClock overrides the clock used for default registration dates.
func (s *StudentService) WithClock(now func() time.Time) *StudentService {
	s.now = now
	return s
}

// Create registers a new student and, when course ids are given, enrolls them as active from today.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*dto.StudentRegistration, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, wrapError(err, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "email already registered")
	}

	today := models.NewDate(s.now())
	registered := today
	if req.RegistrationDate != nil {
		registered = *req.RegistrationDate
	}
	student := &models.Student{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		RegistrationDate: registered.Time,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, wrapError(err, "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("student_id", student.ID), zap.String("email", student.Email))

	registration := &dto.StudentRegistration{StudentID: student.ID}
	if len(req.CourseIDs) == 0 || s.enrollments == nil {
		return registration, nil
	}
	result, err := s.enrollments.Enroll(ctx, CreateEnrollmentRequest{
		StudentID:      student.ID,
		CourseIDs:      req.CourseIDs,
		EnrollmentDate: &today,
		Status:         models.EnrollmentStatusActive,
	})
	registration.Enrollments = result
	if err != nil {
		return registration, err
	}
	return registration, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Search finds students by name or email. An empty term returns a few example students.
func (s *StudentService) Search(ctx context.Context, term string) ([]models.Student, error) {
	students, err := s.repo.Search(ctx, models.StudentFilter{Search: strings.TrimSpace(term), Limit: s.searchLimit})
	if err != nil {
		return nil, wrapError(err, "failed to search students")
	}
	return students, nil
}

// Enrollments lists a student's enrollments, newest first.
func (s *StudentService) Enrollments(ctx context.Context, id int64) ([]models.StudentEnrollment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.Enrollments(ctx, id)
	if err != nil {
		return nil, wrapError(err, "failed to list enrollments")
	}
	return enrollments, nil
}

// Delete removes a student together with their enrollments.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "student not found", "failed to delete student")
	}
	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}
