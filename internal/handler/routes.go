package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Students    *StudentHandler
	Teachers    *TeacherHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Catalog     *CatalogHandler
	Insights    *InsightHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the API endpoints on group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	students := group.Group("/students")
	students.GET("", h.Students.Search)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.GET("/:id/enrollments", h.Students.Enrollments)
	students.DELETE("/:id", h.Students.Delete)

	teachers := group.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", h.Teachers.Create)
	teachers.DELETE("/:id", h.Teachers.Delete)

	courses := group.Group("/courses")
	courses.GET("", h.Courses.Overview)
	courses.POST("", h.Courses.Create)
	courses.DELETE("/:id", h.Courses.Delete)

	enrollments := group.Group("/enrollments")
	enrollments.POST("", h.Enrollments.Create)
	enrollments.PATCH("/:id", h.Enrollments.Update)

	catalog := group.Group("/catalog")
	catalog.GET("", h.Catalog.List)
	catalog.GET("/:query", h.Catalog.Run)
	catalog.GET("/:query/export", h.Catalog.Export)

	insights := group.Group("/insights")
	insights.GET("", h.Insights.List)
	insights.GET("/:name", h.Insights.Get)

	if h.Metrics != nil {
		group.GET("/metrics/summary", h.Metrics.Summary)
	}
}
