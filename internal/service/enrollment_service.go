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

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	UpdateOutcome(ctx context.Context, id int64, status models.EnrollmentStatus, grade *models.Grade) error
}

// CreateEnrollmentRequest enrolls one student into one or more courses.
type CreateEnrollmentRequest struct {
	StudentID      int64                   `json:"student_id" validate:"required,gt=0"`
	CourseIDs      []int64                 `json:"course_ids" validate:"required,min=1,dive,gt=0"`
	EnrollmentDate *models.Date            `json:"enrollment_date"`
	Status         models.EnrollmentStatus `json:"status" validate:"omitempty,oneof=active completed dropped"`
}

// UpdateEnrollmentRequest changes the outcome of an enrollment.
type UpdateEnrollmentRequest struct {
	Status     models.EnrollmentStatus `json:"status" validate:"required,oneof=active completed dropped"`
	FinalGrade *models.Grade           `json:"final_grade" validate:"omitempty,oneof=A B C D E F"`
}

// EnrollmentService registers students into courses.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, validator: validate, metrics: metrics, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for default enrollment dates.
func (s *EnrollmentService) WithClock(now func() time.Time) *EnrollmentService {
	s.now = now
	return s
}

// Enroll inserts one enrollment per course. Each insert commits or fails independently and the
// result lists every course in request order. Only an invalid request or a cancelled context
// fails the whole call.
func (s *EnrollmentService) Enroll(ctx context.Context, req CreateEnrollmentRequest) (*dto.BatchEnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	date := models.NewDate(s.now())
	if req.EnrollmentDate != nil {
		date = *req.EnrollmentDate
	}
	status := req.Status
	if status == "" {
		status = models.EnrollmentStatusActive
	}

	result := &dto.BatchEnrollmentResult{StudentID: req.StudentID, Items: make([]dto.EnrollmentOutcome, 0, len(req.CourseIDs))}
	for _, courseID := range req.CourseIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		enrollment := &models.Enrollment{
			StudentID:      req.StudentID,
			CourseID:       courseID,
			EnrollmentDate: date.Time,
			Status:         status,
		}
		start := time.Now()
		err := s.repo.Create(ctx, enrollment)
		s.metrics.ObserveDBQuery("enrollment_create", time.Since(start))

		outcome := dto.EnrollmentOutcome{CourseID: courseID}
		if err != nil {
			appErr := appErrors.FromError(wrapError(err, "failed to create enrollment"))
			outcome.Error = appErr
			result.Failed++
			s.metrics.RecordEnrollmentAttempt(strings.ToLower(appErr.Code))
			s.logger.Warn("enrollment rejected",
				zap.Int64("student_id", req.StudentID),
				zap.Int64("course_id", courseID),
				zap.String("code", appErr.Code),
				zap.Error(err),
			)
		} else {
			id := enrollment.ID
			outcome.EnrollmentID = &id
			result.Created++
			s.metrics.RecordEnrollmentAttempt(EnrollmentResultCreated)
			s.logger.Info("enrollment created",
				zap.Int64("enrollment_id", id),
				zap.Int64("student_id", req.StudentID),
				zap.Int64("course_id", courseID),
			)
		}
		result.Items = append(result.Items, outcome)
	}
	return result, nil
}

// UpdateOutcome sets status and final grade of an existing enrollment.
func (s *EnrollmentService) UpdateOutcome(ctx context.Context, id int64, req UpdateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	if err := s.repo.UpdateOutcome(ctx, id, req.Status, req.FinalGrade); err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to update enrollment")
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}
	s.logger.Info("enrollment updated", zap.Int64("enrollment_id", id), zap.String("status", string(req.Status)))
	return enrollment, nil
}
