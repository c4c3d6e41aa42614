package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	created  []models.Enrollment
	failures map[int64]error
	stored   map[int64]models.Enrollment
	nextID   int64
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err, ok := m.failures[enrollment.CourseID]; ok {
		return err
	}
	m.nextID++
	enrollment.ID = m.nextID
	m.created = append(m.created, *enrollment)
	return nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if e, ok := m.stored[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) UpdateOutcome(ctx context.Context, id int64, status models.EnrollmentStatus, grade *models.Grade) error {
	e, ok := m.stored[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	e.FinalGrade = grade
	m.stored[id] = e
	return nil
}

func fixedClock() time.Time {
	return time.Date(2025, 9, 1, 22, 30, 0, 0, time.UTC)
}

func TestEnrollmentServiceEnrollReportsEachCourse(t *testing.T) {
	repo := &mockEnrollmentRepo{failures: map[int64]error{
		2: appErrors.Clone(appErrors.ErrForeignKeyViolation, "course does not exist"),
		3: appErrors.Clone(appErrors.ErrDuplicateKey, "student already enrolled in this course"),
	}}
	metrics := NewMetricsService()
	svc := NewEnrollmentService(repo, validator.New(), metrics, zap.NewNop()).WithClock(fixedClock)

	result, err := svc.Enroll(context.Background(), CreateEnrollmentRequest{StudentID: 7, CourseIDs: []int64{1, 2, 3, 4}})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Items, 4)
	assert.True(t, result.Items[0].Succeeded())
	assert.Equal(t, "FOREIGN_KEY_VIOLATION", result.Items[1].Error.Code)
	assert.Equal(t, "DUPLICATE_KEY", result.Items[2].Error.Code)
	require.NotNil(t, result.Items[3].EnrollmentID)
	assert.Equal(t, int64(2), *result.Items[3].EnrollmentID)

	require.Len(t, repo.created, 2)
	assert.Equal(t, models.EnrollmentStatusActive, repo.created[0].Status)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), repo.created[0].EnrollmentDate)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.enrollmentAttempts.WithLabelValues(EnrollmentResultCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.enrollmentAttempts.WithLabelValues("duplicate_key")))
}

func TestEnrollmentServiceEnrollWrapsUnexpectedErrors(t *testing.T) {
	repo := &mockEnrollmentRepo{failures: map[int64]error{1: fmt.Errorf("connection reset")}}
	svc := NewEnrollmentService(repo, nil, nil, nil)

	result, err := svc.Enroll(context.Background(), CreateEnrollmentRequest{StudentID: 1, CourseIDs: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, result.Items[0].Error.Code)
}

func TestEnrollmentServiceEnrollValidation(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, nil, nil, nil)

	cases := []CreateEnrollmentRequest{
		{StudentID: 1},
		{CourseIDs: []int64{1}},
		{StudentID: 1, CourseIDs: []int64{0}},
		{StudentID: 1, CourseIDs: []int64{1}, Status: "graduated"},
	}
	for _, req := range cases {
		_, err := svc.Enroll(context.Background(), req)
		assert.ErrorIs(t, err, appErrors.ErrValidation)
	}
}

func TestEnrollmentServiceEnrollStopsOnCancelledContext(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Enroll(ctx, CreateEnrollmentRequest{StudentID: 1, CourseIDs: []int64{1, 2}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, repo.created)
}

func TestEnrollmentServiceUpdateOutcome(t *testing.T) {
	repo := &mockEnrollmentRepo{stored: map[int64]models.Enrollment{5: {ID: 5, Status: models.EnrollmentStatusActive}}}
	svc := NewEnrollmentService(repo, nil, nil, nil)

	grade := models.GradeA
	enrollment, err := svc.UpdateOutcome(context.Background(), 5, UpdateEnrollmentRequest{Status: models.EnrollmentStatusCompleted, FinalGrade: &grade})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, enrollment.Status)
	assert.Equal(t, models.GradeA, *enrollment.FinalGrade)

	_, err = svc.UpdateOutcome(context.Background(), 6, UpdateEnrollmentRequest{Status: models.EnrollmentStatusDropped})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	bad := models.Grade("Z")
	_, err = svc.UpdateOutcome(context.Background(), 5, UpdateEnrollmentRequest{Status: models.EnrollmentStatusCompleted, FinalGrade: &bad})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
