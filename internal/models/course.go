package models

import "time"

// CourseLevel is the closed set of course difficulty levels.
type CourseLevel string

// Possible course levels.
const (
	CourseLevelBeginner     CourseLevel = "Beginner"
	CourseLevelIntermediate CourseLevel = "Intermediate"
	CourseLevelAdvanced     CourseLevel = "Advanced"
)

// CourseLevels lists every level in display order.
var CourseLevels = []CourseLevel{CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced}

// Valid reports whether l is a known level.
func (l CourseLevel) Valid() bool {
	for _, level := range CourseLevels {
		if l == level {
			return true
		}
	}
	return false
}

// DefaultCourseCredits applies when a course is created without credits.
const DefaultCourseCredits = 3

// Course is a unit of teaching owned by one teacher.
type Course struct {
	ID          int64       `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description *string     `db:"description" json:"description"`
	Level       CourseLevel `db:"level" json:"level"`
	Credits     int         `db:"credits" json:"credits"`
	StartDate   *time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time  `db:"end_date" json:"end_date"`
	TeacherID   int64       `db:"teacher_id" json:"teacher_id"`
}

// CourseFilter narrows the course overview.
type CourseFilter struct {
	TeacherID int64
	Levels    []CourseLevel
	StartFrom *time.Time
	StartTo   *time.Time
}

// CourseStats summarises a course together with its enrollment counts per status.
type CourseStats struct {
	ID               int64       `db:"id" json:"id"`
	Title            string      `db:"title" json:"title"`
	Level            CourseLevel `db:"level" json:"level"`
	StartDate        *time.Time  `db:"start_date" json:"start_date"`
	EndDate          *time.Time  `db:"end_date" json:"end_date"`
	TeacherName      string      `db:"teacher_name" json:"teacher_name"`
	TotalEnrollments int         `db:"total_enrollments" json:"total_enrollments"`
	ActiveCount      int         `db:"active_count" json:"active_count"`
	CompletedCount   int         `db:"completed_count" json:"completed_count"`
	DroppedCount     int         `db:"dropped_count" json:"dropped_count"`
}
