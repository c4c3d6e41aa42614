package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type insightRepository interface {
	StudentsPerCourse(ctx context.Context) ([]models.CourseEnrollmentCount, error)
	StatusDistribution(ctx context.Context) ([]models.StatusCount, error)
	ActiveByLevel(ctx context.Context) ([]models.LevelActiveCount, error)
	CoursesPerTeacher(ctx context.Context) ([]models.TeacherCourseCount, error)
}

// InsightService serves the dashboard summary charts.
type InsightService struct {
	repo    insightRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewInsightService constructs the insight service.
func NewInsightService(repo insightRepository, metrics *MetricsService, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightService{repo: repo, metrics: metrics, logger: logger}
}

// Get computes the named insight.
func (s *InsightService) Get(ctx context.Context, name string) (*models.InsightResult, error) {
	insight, ok := models.ParseInsight(name)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown insight %q", name))
	}

	start := time.Now()
	var (
		result *models.ResultSet
		err    error
	)
	switch insight {
	case models.InsightStudentsPerCourse:
		rows, qErr := s.repo.StudentsPerCourse(ctx)
		result, err = newResultSet(name, insight.Columns(), rows, qErr)
	case models.InsightStatusDistribution:
		rows, qErr := s.repo.StatusDistribution(ctx)
		result, err = newResultSet(name, insight.Columns(), rows, qErr)
	case models.InsightActiveByLevel:
		rows, qErr := s.repo.ActiveByLevel(ctx)
		result, err = newResultSet(name, insight.Columns(), rows, qErr)
	default:
		rows, qErr := s.repo.CoursesPerTeacher(ctx)
		result, err = newResultSet(name, insight.Columns(), rows, qErr)
	}
	s.metrics.ObserveDBQuery("insight_"+name, time.Since(start))
	if err != nil {
		return nil, wrapError(err, "failed to compute insight")
	}
	return &models.InsightResult{Description: insight.Description(), ResultSet: result}, nil
}

// List describes the available insights.
func (s *InsightService) List() []map[string]string {
	items := make([]map[string]string, 0, len(models.Insights))
	for _, insight := range models.Insights {
		items = append(items, map[string]string{"name": string(insight), "description": insight.Description()})
	}
	return items
}
