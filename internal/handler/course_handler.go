package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	"github.com/sahajlabs/exam-admin-gateway/pkg/response"
)

// CourseHandler exposes the read-only course picker endpoints. Courses are
// managed elsewhere on the platform; the admin screens only reference them.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param class_id query int false "Filter by class"
// @Param stream_id query int false "Filter by stream"
// @Param subject_id query int false "Filter by subject"
// @Param chapter_id query int false "Filter by chapter"
// @Param search query string false "Search keyword"
// @Param sort query string false "Sort key (name|parent|created_at)"
// @Param order query string false "Sort order (asc|desc)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, pagination, meta, err := h.service.List(c.Request.Context(), listParams(c), selections(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination, meta)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}
