package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	"github.com/sahajlabs/exam-admin-gateway/pkg/response"
)

// AuditHandler exposes the gateway's own audit trail.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Param actor query string false "Actor (user id or subject)"
// @Param action query string false "Action (CREATE|UPDATE|DELETE|MAPPING_*)"
// @Param resource query string false "Resource name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /audit-entries [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditFilter{
		Actor:    strings.TrimSpace(c.Query("actor")),
		Action:   strings.TrimSpace(c.Query("action")),
		Resource: strings.TrimSpace(c.Query("resource")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	entries, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}
