package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dataacademy-api/internal/dto"
	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/internal/service"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
	"github.com/noah-isme/dataacademy-api/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	Overview(ctx context.Context, filter models.CourseFilter) ([]models.CourseStats, error)
	Delete(ctx context.Context, id int64) error
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Overview godoc
// @Summary Course overview
// @Description Courses with teacher name and enrollment counts per status. Levels may be repeated or comma separated.
// @Tags Courses
// @Produce json
// @Param teacher_id query int false "Teacher ID"
// @Param levels query []string false "Beginner, Intermediate, Advanced"
// @Param start_from query string false "Earliest start date (YYYY-MM-DD)"
// @Param start_to query string false "Latest start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) Overview(c *gin.Context) {
	var query dto.CourseOverviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err, "invalid course filter"))
		return
	}
	filter, err := courseFilter(query)
	if err != nil {
		response.Error(c, err)
		return
	}
	stats, err := h.courses.Overview(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, map[string]interface{}{"count": len(stats)})
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid course payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Delete godoc
// @Summary Delete course
// @Description Removes the course and all of its enrollments.
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func courseFilter(query dto.CourseOverviewQuery) (models.CourseFilter, error) {
	filter := models.CourseFilter{TeacherID: query.TeacherID}
	for _, raw := range query.Levels {
		for _, level := range strings.Split(raw, ",") {
			if level = strings.TrimSpace(level); level != "" {
				filter.Levels = append(filter.Levels, models.CourseLevel(level))
			}
		}
	}
	var err error
	if filter.StartFrom, err = queryDate(query.StartFrom, "start_from"); err != nil {
		return filter, err
	}
	if filter.StartTo, err = queryDate(query.StartTo, "start_to"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryDate(raw, name string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, name+" must be YYYY-MM-DD")
	}
	return &date.Time, nil
}
