package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
	"github.com/sahajlabs/exam-admin-gateway/pkg/response"
)

// ChapterHandler exposes chapter CRUD endpoints.
type ChapterHandler struct {
	service *service.ChapterService
}

// NewChapterHandler constructs a chapter handler.
func NewChapterHandler(svc *service.ChapterService) *ChapterHandler {
	return &ChapterHandler{service: svc}
}

// List godoc
// @Summary List chapters
// @Tags Chapters
// @Produce json
// @Param class_id query int false "Filter by class"
// @Param stream_id query int false "Filter by stream"
// @Param subject_id query int false "Filter by subject"
// @Param search query string false "Search keyword"
// @Param sort query string false "Sort key (name|parent|created_at)"
// @Param order query string false "Sort order (asc|desc)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /chapters [get]
func (h *ChapterHandler) List(c *gin.Context) {
	chapters, pagination, meta, err := h.service.List(c.Request.Context(), listParams(c), selections(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapters, pagination, meta)
}

// Get godoc
// @Summary Get chapter detail
// @Tags Chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id} [get]
func (h *ChapterHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	chapter, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapter, nil)
}

// Create godoc
// @Summary Create chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Param payload body dto.CreateChapterRequest true "Chapter payload"
// @Success 201 {object} response.Envelope
// @Router /chapters [post]
func (h *ChapterHandler) Create(c *gin.Context) {
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	chapter, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, chapter)
}

// Update godoc
// @Summary Update chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Param id path int true "Chapter ID"
// @Param payload body dto.UpdateChapterRequest true "Chapter payload"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id} [put]
func (h *ChapterHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	chapter, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chapter, nil)
}

// Delete godoc
// @Summary Delete chapter
// @Tags Chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 204
// @Router /chapters/{id} [delete]
func (h *ChapterHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
