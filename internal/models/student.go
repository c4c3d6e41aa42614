package models

import "time"

// Student represents a learner registered with the academy.
type Student struct {
	ID               int64     `db:"id" json:"id"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	Email            string    `db:"email" json:"email"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
}

// FullName joins first and last name the way the dashboard displays it.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates the student search parameters.
type StudentFilter struct {
	Search string
	Limit  int
}

// StudentEnrollment is one enrollment of a student with its course context.
type StudentEnrollment struct {
	CourseTitle    string           `db:"course_title" json:"course_title"`
	Level          CourseLevel      `db:"level" json:"level"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	FinalGrade     *Grade           `db:"final_grade" json:"final_grade"`
}

// Record implements Row.
func (e StudentEnrollment) Record() []string {
	return []string{e.CourseTitle, string(e.Level), formatDate(e.EnrollmentDate), string(e.Status), formatGrade(e.FinalGrade)}
}
