package dto

import (
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

// EnrollmentOutcome reports a single course of a batch enrollment.
type EnrollmentOutcome struct {
	CourseID     int64            `json:"course_id"`
	EnrollmentID *int64           `json:"enrollment_id,omitempty"`
	Error        *appErrors.Error `json:"error,omitempty"`
}

// Succeeded reports whether the enrollment row was created.
func (o EnrollmentOutcome) Succeeded() bool {
	return o.Error == nil
}

// BatchEnrollmentResult lists per-course outcomes in request order.
type BatchEnrollmentResult struct {
	StudentID int64               `json:"student_id"`
	Created   int                 `json:"created"`
	Failed    int                 `json:"failed"`
	Items     []EnrollmentOutcome `json:"items"`
}

// StudentRegistration is the result of creating a student with optional initial enrollments.
type StudentRegistration struct {
	StudentID   int64                  `json:"student_id"`
	Enrollments *BatchEnrollmentResult `json:"enrollments,omitempty"`
}
