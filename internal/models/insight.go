package models

import "strconv"

// Insight names one of the dashboard summary charts.
type Insight string

// Available insights.
const (
	InsightStudentsPerCourse  Insight = "students-per-course"
	InsightStatusDistribution Insight = "status-distribution"
	InsightActiveByLevel      Insight = "active-by-level"
	InsightCoursesPerTeacher  Insight = "courses-per-teacher"
)

// Insights lists the insights in display order.
var Insights = []Insight{
	InsightStudentsPerCourse,
	InsightStatusDistribution,
	InsightActiveByLevel,
	InsightCoursesPerTeacher,
}

var insightDescriptions = map[Insight]string{
	InsightStudentsPerCourse:  "Number of students enrolled in each course.",
	InsightStatusDistribution: "Distribution of enrollments by status.",
	InsightActiveByLevel:      "Active enrollments per course level.",
	InsightCoursesPerTeacher:  "Number of courses taught by each teacher.",
}

var insightColumns = map[Insight][]string{
	InsightStudentsPerCourse:  {"course_id", "title", "student_count"},
	InsightStatusDistribution: {"status", "enrollment_count"},
	InsightActiveByLevel:      {"level", "active_enrollments"},
	InsightCoursesPerTeacher:  {"teacher_id", "teacher_name", "course_count"},
}

// ParseInsight resolves an insight name.
func ParseInsight(raw string) (Insight, bool) {
	i := Insight(raw)
	_, ok := insightDescriptions[i]
	return i, ok
}

// Description explains the insight.
func (i Insight) Description() string {
	return insightDescriptions[i]
}

// Columns returns the output columns of the insight.
func (i Insight) Columns() []string {
	return append([]string(nil), insightColumns[i]...)
}

// InsightResult couples an insight's description with its rows.
type InsightResult struct {
	Description string `json:"description"`
	*ResultSet
}

// LevelActiveCount is a row of InsightActiveByLevel.
type LevelActiveCount struct {
	Level             CourseLevel `db:"level" json:"level"`
	ActiveEnrollments int         `db:"active_enrollments" json:"active_enrollments"`
}

func (r LevelActiveCount) Record() []string {
	return []string{string(r.Level), strconv.Itoa(r.ActiveEnrollments)}
}

// TeacherCourseCount is a row of InsightCoursesPerTeacher.
type TeacherCourseCount struct {
	TeacherID   int64  `db:"teacher_id" json:"teacher_id"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	CourseCount int    `db:"course_count" json:"course_count"`
}

func (r TeacherCourseCount) Record() []string {
	return []string{formatID(r.TeacherID), r.TeacherName, strconv.Itoa(r.CourseCount)}
}
