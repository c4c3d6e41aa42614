package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dataacademy-api/internal/dto"
	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/internal/service"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type fakeEnrollmentSrv struct {
	enrolled  service.CreateEnrollmentRequest
	updatedID int64
	updated   service.UpdateEnrollmentRequest
	updateErr error
}

func (f *fakeEnrollmentSrv) Enroll(_ context.Context, req service.CreateEnrollmentRequest) (*dto.BatchEnrollmentResult, error) {
	f.enrolled = req
	id := int64(40)
	return &dto.BatchEnrollmentResult{
		StudentID: req.StudentID,
		Created:   1,
		Failed:    1,
		Items: []dto.EnrollmentOutcome{
			{CourseID: req.CourseIDs[0], EnrollmentID: &id},
			{CourseID: req.CourseIDs[1], Error: appErrors.Clone(appErrors.ErrDuplicateKey, "student already enrolled in course")},
		},
	}, nil
}

func (f *fakeEnrollmentSrv) UpdateOutcome(_ context.Context, id int64, req service.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	f.updatedID = id
	f.updated = req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Enrollment{ID: id, Status: req.Status, FinalGrade: req.FinalGrade}, nil
}

func TestEnrollmentHandlerCreateReportsPerItem(t *testing.T) {
	srv := &fakeEnrollmentSrv{}
	c, rec := newTestContext(http.MethodPost, "/enrollments", `{"student_id":1,"course_ids":[3,4]}`)

	NewEnrollmentHandler(srv).Create(c)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
	assert.Equal(t, []int64{3, 4}, srv.enrolled.CourseIDs)
	body := decode[responseEnvelope](t, rec)
	items, ok := body.Data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	failed := items[1].(map[string]interface{})
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, failed["error"].(map[string]interface{})["code"])
}

func TestEnrollmentHandlerCreateMalformedPayload(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/enrollments", `{"student_id":"one"}`)

	NewEnrollmentHandler(&fakeEnrollmentSrv{}).Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrollmentHandlerUpdate(t *testing.T) {
	srv := &fakeEnrollmentSrv{}
	c, rec := newTestContext(http.MethodPatch, "/enrollments/8", `{"status":"completed","final_grade":"B"}`, gin.Param{Key: "id", Value: "8"})

	NewEnrollmentHandler(srv).Update(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(8), srv.updatedID)
	assert.Equal(t, models.EnrollmentStatusCompleted, srv.updated.Status)
	body := decode[responseEnvelope](t, rec)
	assert.Equal(t, "B", body.Data["final_grade"])
}

func TestEnrollmentHandlerUpdateMissing(t *testing.T) {
	srv := &fakeEnrollmentSrv{updateErr: appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")}
	c, rec := newTestContext(http.MethodPatch, "/enrollments/99", `{"status":"dropped"}`, gin.Param{Key: "id", Value: "99"})

	NewEnrollmentHandler(srv).Update(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
