package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dataacademy-api/internal/models"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type mockTeacherRepo struct {
	emails    map[string]bool
	created   []models.Teacher
	deleteErr error
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *teacher)
	return nil
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emails[email], nil
}

func (m *mockTeacherRepo) ListOptions(ctx context.Context) ([]models.TeacherOption, error) {
	return []models.TeacherOption{{ID: 1, Name: "Grace Hopper"}}, nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteErr
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{emails: map[string]bool{"taken@example.com": true}}
	svc := NewTeacherService(repo, nil, nil)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), teacher.ID)
	assert.Nil(t, teacher.Bio)

	_, err = svc.Create(context.Background(), CreateTeacherRequest{FirstName: "X", LastName: "Y", Email: "taken@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateKey)
}

func TestTeacherServiceDeleteRestricted(t *testing.T) {
	restricted := appErrors.Clone(appErrors.ErrForeignKeyViolation, "teacher still has courses")
	svc := NewTeacherService(&mockTeacherRepo{deleteErr: restricted}, nil, nil)

	err := svc.Delete(context.Background(), 1)
	require.ErrorIs(t, err, appErrors.ErrForeignKeyViolation)
	assert.Equal(t, "teacher still has courses", appErrors.FromError(err).Message)
}
