package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
	"github.com/sahajlabs/exam-admin-gateway/pkg/response"
)

// StreamHandler exposes stream CRUD endpoints.
type StreamHandler struct {
	service *service.StreamService
}

// NewStreamHandler constructs a stream handler.
func NewStreamHandler(svc *service.StreamService) *StreamHandler {
	return &StreamHandler{service: svc}
}

// List godoc
// @Summary List streams
// @Tags Streams
// @Produce json
// @Param class_id query int false "Filter by class"
// @Param search query string false "Search keyword"
// @Param sort query string false "Sort key (name|parent|created_at)"
// @Param order query string false "Sort order (asc|desc)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /streams [get]
func (h *StreamHandler) List(c *gin.Context) {
	streams, pagination, meta, err := h.service.List(c.Request.Context(), listParams(c), selections(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, streams, pagination, meta)
}

// Get godoc
// @Summary Get stream detail
// @Tags Streams
// @Produce json
// @Param id path int true "Stream ID"
// @Success 200 {object} response.Envelope
// @Router /streams/{id} [get]
func (h *StreamHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	stream, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stream, nil)
}

// Create godoc
// @Summary Create stream
// @Tags Streams
// @Accept json
// @Produce json
// @Param payload body dto.CreateStreamRequest true "Stream payload"
// @Success 201 {object} response.Envelope
// @Router /streams [post]
func (h *StreamHandler) Create(c *gin.Context) {
	var req dto.CreateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	stream, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stream)
}

// Update godoc
// @Summary Update stream
// @Tags Streams
// @Accept json
// @Produce json
// @Param id path int true "Stream ID"
// @Param payload body dto.UpdateStreamRequest true "Stream payload"
// @Success 200 {object} response.Envelope
// @Router /streams/{id} [put]
func (h *StreamHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	stream, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stream, nil)
}

// Delete godoc
// @Summary Delete stream
// @Tags Streams
// @Produce json
// @Param id path int true "Stream ID"
// @Success 204
// @Router /streams/{id} [delete]
func (h *StreamHandler) Delete(c *gin.Context) {
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
