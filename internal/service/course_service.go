package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	Stats(ctx context.Context, filter models.CourseFilter) ([]models.CourseStats, error)
	Delete(ctx context.Context, id int64) error
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description *string            `json:"description"`
	Level       models.CourseLevel `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Credits     *int               `json:"credits"`
	StartDate   *models.Date       `json:"start_date"`
	EndDate     *models.Date       `json:"end_date"`
	TeacherID   int64              `json:"teacher_id" validate:"required,gt=0"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, metrics: metrics, logger: logger}
}

// Create adds a course. Credits default to three; range and teacher checks are left to the schema.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	credits := models.DefaultCourseCredits
	if req.Credits != nil {
		credits = *req.Credits
	}
	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
		Credits:     credits,
		StartDate:   dateTime(req.StartDate),
		EndDate:     dateTime(req.EndDate),
		TeacherID:   req.TeacherID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, wrapError(err, "failed to create course")
	}
	s.logger.Info("course created", zap.Int64("course_id", course.ID), zap.Int64("teacher_id", course.TeacherID))
	return course, nil
}

// Overview returns per-course enrollment statistics matching the filter.
func (s *CourseService) Overview(ctx context.Context, filter models.CourseFilter) ([]models.CourseStats, error) {
	for _, level := range filter.Levels {
		if !level.Valid() {
			return nil, validationError(fmt.Errorf("unknown level %q", level), "invalid course filter")
		}
	}
	start := time.Now()
	stats, err := s.repo.Stats(ctx, filter)
	s.metrics.ObserveDBQuery("course_overview", time.Since(start))
	if err != nil {
		return nil, wrapError(err, "failed to load course overview")
	}
	return stats, nil
}

// Delete removes a course together with its enrollments.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "course not found", "failed to delete course")
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	return nil
}

func dateTime(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
