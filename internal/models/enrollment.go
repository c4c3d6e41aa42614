package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// EnrollmentStatuses lists every status in sort order.
var EnrollmentStatuses = []EnrollmentStatus{EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusDropped}

// Valid reports whether s is a known status.
func (s EnrollmentStatus) Valid() bool {
	for _, status := range EnrollmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Grade is a final letter grade.
type Grade string

// Possible grades, best first.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeE, GradeF}

// gradePoints is the fixed letter to point mapping used for averaging. It is never stored.
var gradePoints = map[Grade]int{
	GradeA: 5,
	GradeB: 4,
	GradeC: 3,
	GradeD: 2,
	GradeE: 1,
	GradeF: 0,
}

// Points returns the grade-point value of g.
func (g Grade) Points() (int, bool) {
	points, ok := gradePoints[g]
	return points, ok
}

// Valid reports whether g is a known grade.
func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

// Enrollment associates one student with one course.
type Enrollment struct {
	ID             int64            `db:"id" json:"id"`
	StudentID      int64            `db:"student_id" json:"student_id"`
	CourseID       int64            `db:"course_id" json:"course_id"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	FinalGrade     *Grade           `db:"final_grade" json:"final_grade"`
}
