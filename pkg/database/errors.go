package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

// SQLSTATE classes surfaced as typed errors.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

var constraintMessages = map[string]string{
	"teacher_email_key":               "teacher email already registered",
	"student_email_key":               "email already registered",
	"student_registration_date_check": "registration date must be on or after 2000-01-01",
	"course_level_check":              "level must be Beginner, Intermediate or Advanced",
	"course_credits_check":            "credits must be greater than zero",
	"course_date_range_check":         "end date must not precede start date",
	"enrollment_status_check":         "status must be active, completed or dropped",
	"enrollment_final_grade_check":    "final grade must be one of A, B, C, D, E, F",
	"enrollment_student_course_key":   "student already enrolled in this course",
	"enrollment_student_id_fkey":      "student does not exist",
	"enrollment_course_id_fkey":       "course does not exist",
	"course_teacher_id_fkey":          "teacher does not exist",
}

// Raised when deleting a referenced row rather than inserting a dangling one.
var restrictMessages = map[string]string{
	"course_teacher_id_fkey": "teacher still has courses",
}

// TranslateError maps PostgreSQL integrity failures onto the typed error taxonomy.
// Other errors, including context cancellation, are returned unchanged.
func TranslateError(err error) error {
	var pqErr *pq.Error
	if err == nil || !errors.As(err, &pqErr) {
		return err
	}

	var template *appErrors.Error
	switch string(pqErr.Code) {
	case codeCheckViolation, codeNotNullViolation:
		template = appErrors.ErrConstraintViolation
	case codeUniqueViolation:
		template = appErrors.ErrDuplicateKey
	case codeForeignKeyViolation:
		template = appErrors.ErrForeignKeyViolation
	default:
		return err
	}

	return appErrors.CloneWrap(template, err, constraintMessage(pqErr))
}

func constraintMessage(pqErr *pq.Error) string {
	if strings.HasPrefix(pqErr.Message, "update or delete") {
		if msg, ok := restrictMessages[pqErr.Constraint]; ok {
			return msg
		}
	}
	if msg, ok := constraintMessages[pqErr.Constraint]; ok {
		return msg
	}
	if pqErr.Code == codeNotNullViolation && pqErr.Column != "" {
		return pqErr.Column + " is required"
	}
	return pqErr.Message
}
