package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	"github.com/sahajlabs/exam-admin-gateway/pkg/response"
)

// ReportHandler exposes the subscription reporting endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Overview godoc
// @Summary Subscription overview report
// @Tags Reports
// @Produce json
// @Param time_period query string false "Time period (all|last_week|last_month|last_3_months|last_6_months|last_year)"
// @Param subscription_id query int false "Restrict to one subscription plan"
// @Success 200 {object} response.Envelope
// @Router /reports/subscriptions/overview [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	period := strings.TrimSpace(c.Query("time_period"))
	overview, err := h.service.Overview(c.Request.Context(), period, queryID(c, "subscription_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Dashboard godoc
// @Summary Platform dashboard statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
