package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type catalogRepository interface {
	EnrollmentCounts(ctx context.Context) ([]models.CourseEnrollmentCount, error)
	CourseRoster(ctx context.Context, courseID int64) ([]models.RosterEntry, error)
	RosterByTitle(ctx context.Context, pattern string) ([]models.TitleRosterEntry, error)
	StudentEnrollments(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error)
	StatusBreakdown(ctx context.Context) ([]models.CourseStatusCount, error)
	TeacherStatusBreakdown(ctx context.Context, teacherID int64) ([]models.StatusCount, error)
	FutureCourses(ctx context.Context, today time.Time) ([]models.UpcomingCourse, error)
	ActiveCourses(ctx context.Context, today time.Time) ([]models.RunningCourse, error)
	TopCompleted(ctx context.Context) ([]models.CourseCompletionCount, error)
	AverageGrades(ctx context.Context) ([]models.CourseGradeAverage, error)
}

type studentEmailLookup interface {
	FindIDByEmail(ctx context.Context, email string) (int64, error)
}

// CatalogService runs the fixed analytical queries.
type CatalogService struct {
	repo      catalogRepository
	students  studentEmailLookup
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo catalogRepository, students studentEmailLookup, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, students: students, validator: validate, metrics: metrics, logger: logger, now: time.Now}
}

// WithClock overrides the clock that decides "today" for the date based queries.
func (s *CatalogService) WithClock(now func() time.Time) *CatalogService {
	s.now = now
	return s
}

// List describes every catalog entry.
func (s *CatalogService) List() []models.CatalogInfo {
	infos := make([]models.CatalogInfo, 0, len(models.CatalogQueries))
	for _, q := range models.CatalogQueries {
		infos = append(infos, models.CatalogInfo{Key: q, Description: q.Description(), Params: q.Params(), Columns: q.Columns()})
	}
	return infos
}

// BuildRequest turns a catalog key and raw string parameters into a typed request.
func (s *CatalogService) BuildRequest(query string, params map[string]string) (models.CatalogRequest, error) {
	q, ok := models.ParseCatalogQuery(query)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown catalog query %q", query))
	}
	switch q {
	case models.CatalogEnrollmentCounts:
		return models.EnrollmentCountsRequest{}, nil
	case models.CatalogCourseRoster:
		id, err := positiveID(params["courseId"], "courseId")
		if err != nil {
			return nil, err
		}
		return models.CourseRosterRequest{CourseID: id}, nil
	case models.CatalogRosterByTitle:
		return models.RosterByTitleRequest{Pattern: strings.TrimSpace(params["title"])}, nil
	case models.CatalogStudentEnrollments:
		return models.StudentEnrollmentsRequest{Email: strings.TrimSpace(params["email"])}, nil
	case models.CatalogStatusBreakdown:
		return models.StatusBreakdownRequest{}, nil
	case models.CatalogTeacherStatusBreakdown:
		id, err := positiveID(params["teacherId"], "teacherId")
		if err != nil {
			return nil, err
		}
		return models.TeacherStatusBreakdownRequest{TeacherID: id}, nil
	case models.CatalogFutureCourses:
		return models.FutureCoursesRequest{}, nil
	case models.CatalogActiveCourses:
		return models.ActiveCoursesRequest{}, nil
	case models.CatalogTopCompleted:
		return models.TopCompletedRequest{}, nil
	default:
		return models.AverageGradesRequest{}, nil
	}
}

// Run validates and dispatches a typed catalog request into a tabular result.
func (s *CatalogService) Run(ctx context.Context, req models.CatalogRequest) (*models.ResultSet, error) {
	if req == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "catalog request is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid parameters for "+string(req.CatalogQuery()))
	}

	name := string(req.CatalogQuery())
	columns := req.CatalogQuery().Columns()
	switch r := req.(type) {
	case models.EnrollmentCountsRequest:
		rows, err := s.EnrollmentCounts(ctx)
		return newResultSet(name, columns, rows, err)
	case models.CourseRosterRequest:
		rows, err := s.CourseRoster(ctx, r.CourseID)
		return newResultSet(name, columns, rows, err)
	case models.RosterByTitleRequest:
		rows, err := s.RosterByTitle(ctx, r.Pattern)
		return newResultSet(name, columns, rows, err)
	case models.StudentEnrollmentsRequest:
		rows, err := s.StudentEnrollments(ctx, r.Email)
		return newResultSet(name, columns, rows, err)
	case models.StatusBreakdownRequest:
		rows, err := s.StatusBreakdown(ctx)
		return newResultSet(name, columns, rows, err)
	case models.TeacherStatusBreakdownRequest:
		rows, err := s.TeacherStatusBreakdown(ctx, r.TeacherID)
		return newResultSet(name, columns, rows, err)
	case models.FutureCoursesRequest:
		rows, err := s.FutureCourses(ctx)
		return newResultSet(name, columns, rows, err)
	case models.ActiveCoursesRequest:
		rows, err := s.ActiveCourses(ctx)
		return newResultSet(name, columns, rows, err)
	case models.TopCompletedRequest:
		rows, err := s.TopCompleted(ctx)
		return newResultSet(name, columns, rows, err)
	case models.AverageGradesRequest:
		rows, err := s.AverageGrades(ctx)
		return newResultSet(name, columns, rows, err)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported catalog request %T", req))
	}
}

// EnrollmentCounts runs enrollment-counts.
func (s *CatalogService) EnrollmentCounts(ctx context.Context) ([]models.CourseEnrollmentCount, error) {
	defer s.observe(models.CatalogEnrollmentCounts, time.Now())
	rows, err := s.repo.EnrollmentCounts(ctx)
	return rows, wrapError(err, "failed to count enrollments")
}

// CourseRoster runs course-roster.
func (s *CatalogService) CourseRoster(ctx context.Context, courseID int64) ([]models.RosterEntry, error) {
	defer s.observe(models.CatalogCourseRoster, time.Now())
	rows, err := s.repo.CourseRoster(ctx, courseID)
	return rows, wrapError(err, "failed to load course roster")
}

// RosterByTitle runs roster-by-title. Wildcards in the pattern match literally.
func (s *CatalogService) RosterByTitle(ctx context.Context, pattern string) ([]models.TitleRosterEntry, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title pattern is required")
	}
	defer s.observe(models.CatalogRosterByTitle, time.Now())
	rows, err := s.repo.RosterByTitle(ctx, pattern)
	return rows, wrapError(err, "failed to load roster by title")
}

// StudentEnrollments runs student-enrollments. An unknown email is NotFound.
func (s *CatalogService) StudentEnrollments(ctx context.Context, email string) ([]models.StudentEnrollment, error) {
	defer s.observe(models.CatalogStudentEnrollments, time.Now())
	studentID, err := s.students.FindIDByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, "no student with email "+email, "failed to resolve student")
	}
	rows, err := s.repo.StudentEnrollments(ctx, studentID)
	return rows, wrapError(err, "failed to load student enrollments")
}

// StatusBreakdown runs status-breakdown.
func (s *CatalogService) StatusBreakdown(ctx context.Context) ([]models.CourseStatusCount, error) {
	defer s.observe(models.CatalogStatusBreakdown, time.Now())
	rows, err := s.repo.StatusBreakdown(ctx)
	return rows, wrapError(err, "failed to count statuses")
}

// TeacherStatusBreakdown runs teacher-status-breakdown.
func (s *CatalogService) TeacherStatusBreakdown(ctx context.Context, teacherID int64) ([]models.StatusCount, error) {
	defer s.observe(models.CatalogTeacherStatusBreakdown, time.Now())
	rows, err := s.repo.TeacherStatusBreakdown(ctx, teacherID)
	return rows, wrapError(err, "failed to count teacher statuses")
}

// FutureCourses runs future-courses relative to the service clock.
func (s *CatalogService) FutureCourses(ctx context.Context) ([]models.UpcomingCourse, error) {
	defer s.observe(models.CatalogFutureCourses, time.Now())
	rows, err := s.repo.FutureCourses(ctx, s.today())
	return rows, wrapError(err, "failed to list future courses")
}

// ActiveCourses runs active-courses relative to the service clock.
func (s *CatalogService) ActiveCourses(ctx context.Context) ([]models.RunningCourse, error) {
	defer s.observe(models.CatalogActiveCourses, time.Now())
	rows, err := s.repo.ActiveCourses(ctx, s.today())
	return rows, wrapError(err, "failed to list active courses")
}

// TopCompleted runs top-completed.
func (s *CatalogService) TopCompleted(ctx context.Context) ([]models.CourseCompletionCount, error) {
	defer s.observe(models.CatalogTopCompleted, time.Now())
	rows, err := s.repo.TopCompleted(ctx)
	return rows, wrapError(err, "failed to rank completed courses")
}

// AverageGrades runs average-grades.
func (s *CatalogService) AverageGrades(ctx context.Context) ([]models.CourseGradeAverage, error) {
	defer s.observe(models.CatalogAverageGrades, time.Now())
	rows, err := s.repo.AverageGrades(ctx)
	return rows, wrapError(err, "failed to average grades")
}

func (s *CatalogService) today() time.Time {
	return models.NewDate(s.now()).Time
}

func (s *CatalogService) observe(q models.CatalogQuery, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.ObserveDBQuery(string(q), elapsed)
	s.logger.Debug("catalog query", zap.String("query", string(q)), zap.Duration("duration", elapsed))
}

// newResultSet adapts a typed query result into a ResultSet.
func newResultSet[R models.Row](name string, columns []string, rows []R, err error) (*models.ResultSet, error) {
	if err != nil {
		return nil, err
	}
	return models.NewResultSet(name, columns, rows), nil
}

func positiveID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}
