package dto

// CourseOverviewQuery binds the course overview filters from the query string.
type CourseOverviewQuery struct {
	TeacherID int64    `form:"teacher_id"`
	Levels    []string `form:"levels"`
	StartFrom string   `form:"start_from"`
	StartTo   string   `form:"start_to"`
}

// StudentSearchQuery binds the student search term.
type StudentSearchQuery struct {
	Search string `form:"search"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format"`
}
