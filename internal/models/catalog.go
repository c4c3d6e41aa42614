package models

import (
	"strconv"
	"time"
)

// CatalogQuery names one of the fixed analytical read queries.
type CatalogQuery string

// The catalog, in its documented order.
const (
	CatalogEnrollmentCounts       CatalogQuery = "enrollment-counts"
	CatalogCourseRoster           CatalogQuery = "course-roster"
	CatalogRosterByTitle          CatalogQuery = "roster-by-title"
	CatalogStudentEnrollments     CatalogQuery = "student-enrollments"
	CatalogStatusBreakdown        CatalogQuery = "status-breakdown"
	CatalogTeacherStatusBreakdown CatalogQuery = "teacher-status-breakdown"
	CatalogFutureCourses          CatalogQuery = "future-courses"
	CatalogActiveCourses          CatalogQuery = "active-courses"
	CatalogTopCompleted           CatalogQuery = "top-completed"
	CatalogAverageGrades          CatalogQuery = "average-grades"
)

// TopCompletedLimit caps the top-completed ranking.
const TopCompletedLimit = 10

type catalogEntry struct {
	columns     []string
	params      []string
	description string
}

var catalogEntries = map[CatalogQuery]catalogEntry{
	CatalogEnrollmentCounts: {
		columns:     []string{"course_id", "title", "student_count"},
		description: "Number of enrolled students per course, including courses without enrollments.",
	},
	CatalogCourseRoster: {
		columns:     []string{"student_id", "first_name", "last_name", "email", "status", "final_grade"},
		params:      []string{"courseId"},
		description: "Students enrolled in a course, by course id.",
	},
	CatalogRosterByTitle: {
		columns:     []string{"title", "student_id", "first_name", "last_name", "email", "status", "final_grade"},
		params:      []string{"title"},
		description: "Students enrolled in every course whose title contains the pattern (case-insensitive).",
	},
	CatalogStudentEnrollments: {
		columns:     []string{"course_title", "level", "enrollment_date", "status", "final_grade"},
		params:      []string{"email"},
		description: "Enrollments of the student with the exact email, newest first.",
	},
	CatalogStatusBreakdown: {
		columns:     []string{"course_id", "title", "status", "enrollment_count"},
		description: "Enrollment count per course and status present.",
	},
	CatalogTeacherStatusBreakdown: {
		columns:     []string{"status", "enrollment_count"},
		params:      []string{"teacherId"},
		description: "Enrollment count per status across all courses of one teacher.",
	},
	CatalogFutureCourses: {
		columns:     []string{"course_id", "title", "level", "start_date", "end_date", "teacher_name"},
		description: "Courses starting after today, with their teacher.",
	},
	CatalogActiveCourses: {
		columns:     []string{"course_id", "title", "start_date", "end_date", "student_count"},
		description: "Courses running today, with their enrollment count.",
	},
	CatalogTopCompleted: {
		columns:     []string{"course_id", "title", "completed_count"},
		description: "Top 10 courses by completed enrollments.",
	},
	CatalogAverageGrades: {
		columns:     []string{"course_id", "title", "avg_grade_points"},
		description: "Average grade points per course (A=5 .. F=0), graded enrollments only.",
	},
}

// CatalogQueries lists every catalog entry in catalog order.
var CatalogQueries = []CatalogQuery{
	CatalogEnrollmentCounts,
	CatalogCourseRoster,
	CatalogRosterByTitle,
	CatalogStudentEnrollments,
	CatalogStatusBreakdown,
	CatalogTeacherStatusBreakdown,
	CatalogFutureCourses,
	CatalogActiveCourses,
	CatalogTopCompleted,
	CatalogAverageGrades,
}

// ParseCatalogQuery resolves a catalog key.
func ParseCatalogQuery(raw string) (CatalogQuery, bool) {
	q := CatalogQuery(raw)
	_, ok := catalogEntries[q]
	return q, ok
}

// Columns returns the fixed output columns of q, in order.
func (q CatalogQuery) Columns() []string {
	return append([]string(nil), catalogEntries[q].columns...)
}

// Params returns the request parameter names q accepts.
func (q CatalogQuery) Params() []string {
	return append([]string(nil), catalogEntries[q].params...)
}

// Description explains q in one sentence.
func (q CatalogQuery) Description() string {
	return catalogEntries[q].description
}

// CatalogInfo describes a catalog entry for discovery.
type CatalogInfo struct {
	Key         CatalogQuery `json:"key"`
	Description string       `json:"description"`
	Params      []string     `json:"params"`
	Columns     []string     `json:"columns"`
}

// CatalogRequest is the sealed set of catalog invocations. Each implementation
// fixes the parameters and the row type of one catalog entry.
type CatalogRequest interface {
	CatalogQuery() CatalogQuery
	isCatalogRequest()
}

// EnrollmentCountsRequest runs CatalogEnrollmentCounts.
type EnrollmentCountsRequest struct{}

// CourseRosterRequest runs CatalogCourseRoster.
type CourseRosterRequest struct {
	CourseID int64 `validate:"required,gt=0"`
}

// RosterByTitleRequest runs CatalogRosterByTitle.
type RosterByTitleRequest struct {
	Pattern string `validate:"required"`
}

// StudentEnrollmentsRequest runs CatalogStudentEnrollments.
type StudentEnrollmentsRequest struct {
	Email string `validate:"required"`
}

// StatusBreakdownRequest runs CatalogStatusBreakdown.
type StatusBreakdownRequest struct{}

// TeacherStatusBreakdownRequest runs CatalogTeacherStatusBreakdown.
type TeacherStatusBreakdownRequest struct {
	TeacherID int64 `validate:"required,gt=0"`
}

// FutureCoursesRequest runs CatalogFutureCourses.
type FutureCoursesRequest struct{}

// ActiveCoursesRequest runs CatalogActiveCourses.
type ActiveCoursesRequest struct{}

// TopCompletedRequest runs CatalogTopCompleted.
type TopCompletedRequest struct{}

// AverageGradesRequest runs CatalogAverageGrades.
type AverageGradesRequest struct{}

func (EnrollmentCountsRequest) CatalogQuery() CatalogQuery       { return CatalogEnrollmentCounts }
func (CourseRosterRequest) CatalogQuery() CatalogQuery           { return CatalogCourseRoster }
func (RosterByTitleRequest) CatalogQuery() CatalogQuery          { return CatalogRosterByTitle }
func (StudentEnrollmentsRequest) CatalogQuery() CatalogQuery     { return CatalogStudentEnrollments }
func (StatusBreakdownRequest) CatalogQuery() CatalogQuery        { return CatalogStatusBreakdown }
func (TeacherStatusBreakdownRequest) CatalogQuery() CatalogQuery { return CatalogTeacherStatusBreakdown }
func (FutureCoursesRequest) CatalogQuery() CatalogQuery          { return CatalogFutureCourses }
func (ActiveCoursesRequest) CatalogQuery() CatalogQuery          { return CatalogActiveCourses }
func (TopCompletedRequest) CatalogQuery() CatalogQuery           { return CatalogTopCompleted }
func (AverageGradesRequest) CatalogQuery() CatalogQuery          { return CatalogAverageGrades }

func (EnrollmentCountsRequest) isCatalogRequest()       {}
func (CourseRosterRequest) isCatalogRequest()           {}
func (RosterByTitleRequest) isCatalogRequest()          {}
func (StudentEnrollmentsRequest) isCatalogRequest()     {}
func (StatusBreakdownRequest) isCatalogRequest()        {}
func (TeacherStatusBreakdownRequest) isCatalogRequest() {}
func (FutureCoursesRequest) isCatalogRequest()          {}
func (ActiveCoursesRequest) isCatalogRequest()          {}
func (TopCompletedRequest) isCatalogRequest()           {}
func (AverageGradesRequest) isCatalogRequest()          {}

// CourseEnrollmentCount is a row of CatalogEnrollmentCounts.
type CourseEnrollmentCount struct {
	CourseID     int64  `db:"course_id" json:"course_id"`
	Title        string `db:"title" json:"title"`
	StudentCount int    `db:"student_count" json:"student_count"`
}

func (r CourseEnrollmentCount) Record() []string {
	return []string{formatID(r.CourseID), r.Title, strconv.Itoa(r.StudentCount)}
}

// RosterEntry is a row of CatalogCourseRoster.
type RosterEntry struct {
	StudentID  int64            `db:"student_id" json:"student_id"`
	FirstName  string           `db:"first_name" json:"first_name"`
	LastName   string           `db:"last_name" json:"last_name"`
	Email      string           `db:"email" json:"email"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	FinalGrade *Grade           `db:"final_grade" json:"final_grade"`
}

func (r RosterEntry) Record() []string {
	return []string{formatID(r.StudentID), r.FirstName, r.LastName, r.Email, string(r.Status), formatGrade(r.FinalGrade)}
}

// TitleRosterEntry is a row of CatalogRosterByTitle.
type TitleRosterEntry struct {
	Title string `db:"title" json:"title"`
	RosterEntry
}

func (r TitleRosterEntry) Record() []string {
	return append([]string{r.Title}, r.RosterEntry.Record()...)
}

// CourseStatusCount is a row of CatalogStatusBreakdown.
type CourseStatusCount struct {
	CourseID        int64            `db:"course_id" json:"course_id"`
	Title           string           `db:"title" json:"title"`
	Status          EnrollmentStatus `db:"status" json:"status"`
	EnrollmentCount int              `db:"enrollment_count" json:"enrollment_count"`
}

func (r CourseStatusCount) Record() []string {
	return []string{formatID(r.CourseID), r.Title, string(r.Status), strconv.Itoa(r.EnrollmentCount)}
}

// StatusCount is a row of CatalogTeacherStatusBreakdown and of the status distribution insight.
type StatusCount struct {
	Status          EnrollmentStatus `db:"status" json:"status"`
	EnrollmentCount int              `db:"enrollment_count" json:"enrollment_count"`
}

func (r StatusCount) Record() []string {
	return []string{string(r.Status), strconv.Itoa(r.EnrollmentCount)}
}

// UpcomingCourse is a row of CatalogFutureCourses.
type UpcomingCourse struct {
	CourseID    int64       `db:"course_id" json:"course_id"`
	Title       string      `db:"title" json:"title"`
	Level       CourseLevel `db:"level" json:"level"`
	StartDate   time.Time   `db:"start_date" json:"start_date"`
	EndDate     *time.Time  `db:"end_date" json:"end_date"`
	TeacherName string      `db:"teacher_name" json:"teacher_name"`
}

func (r UpcomingCourse) Record() []string {
	return []string{formatID(r.CourseID), r.Title, string(r.Level), formatDate(r.StartDate), formatOptionalDate(r.EndDate), r.TeacherName}
}

// RunningCourse is a row of CatalogActiveCourses.
type RunningCourse struct {
	CourseID     int64     `db:"course_id" json:"course_id"`
	Title        string    `db:"title" json:"title"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	StudentCount int       `db:"student_count" json:"student_count"`
}

func (r RunningCourse) Record() []string {
	return []string{formatID(r.CourseID), r.Title, formatDate(r.StartDate), formatDate(r.EndDate), strconv.Itoa(r.StudentCount)}
}

// CourseCompletionCount is a row of CatalogTopCompleted.
type CourseCompletionCount struct {
	CourseID       int64  `db:"course_id" json:"course_id"`
	Title          string `db:"title" json:"title"`
	CompletedCount int    `db:"completed_count" json:"completed_count"`
}

func (r CourseCompletionCount) Record() []string {
	return []string{formatID(r.CourseID), r.Title, strconv.Itoa(r.CompletedCount)}
}

// CourseGradeAverage is a row of CatalogAverageGrades.
type CourseGradeAverage struct {
	CourseID       int64   `db:"course_id" json:"course_id"`
	Title          string  `db:"title" json:"title"`
	AvgGradePoints float64 `db:"avg_grade_points" json:"avg_grade_points"`
}

func (r CourseGradeAverage) Record() []string {
	return []string{formatID(r.CourseID), r.Title, strconv.FormatFloat(r.AvgGradePoints, 'f', 2, 64)}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
