package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
	"github.com/sahajlabs/exam-admin-gateway/pkg/response"
)

// MappingHandler exposes the package-subscription mapping endpoints.
type MappingHandler struct {
	service *service.MappingService
}

// NewMappingHandler constructs a mapping handler.
func NewMappingHandler(svc *service.MappingService) *MappingHandler {
	return &MappingHandler{service: svc}
}

// List godoc
// @Summary List package-subscription mappings grouped by subscription
// @Tags Mappings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscription-packages [get]
func (h *MappingHandler) List(c *gin.Context) {
	groups, err := h.service.Groups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Unmapped godoc
// @Summary List subscription plans without a package mapping
// @Tags Mappings
// @Produce json
// @Param editing_subscription_id query int false "Subscription whose mapping is being edited"
// @Success 200 {object} response.Envelope
// @Router /subscription-packages/unmapped [get]
func (h *MappingHandler) Unmapped(c *gin.Context) {
	options, err := h.service.Unmapped(c.Request.Context(), queryID(c, "editing_subscription_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// Create godoc
// @Summary Map a set of packages to a subscription plan
// @Tags Mappings
// @Accept json
// @Produce json
// @Param payload body dto.CreateMappingRequest true "Mapping payload"
// @Success 201 {object} response.Envelope
// @Router /subscription-packages/bulk [post]
func (h *MappingHandler) Create(c *gin.Context) {
	var req dto.CreateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Replace godoc
// @Summary Replace a subscription plan's package mapping
// @Tags Mappings
// @Accept json
// @Produce json
// @Param subscriptionId path int true "Subscription ID"
// @Param payload body dto.ReplaceMappingRequest true "Mapping payload"
// @Success 200 {object} response.Envelope
// @Router /subscription-packages/{subscriptionId} [put]
func (h *MappingHandler) Replace(c *gin.Context) {
	subscriptionID, err := pathID(c, "subscriptionId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ReplaceMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Replace(c.Request.Context(), subscriptionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Delete godoc
// @Summary Delete a subscription plan's package mapping
// @Tags Mappings
// @Produce json
// @Param subscriptionId path int true "Subscription ID"
// @Success 204
// @Router /subscription-packages/{subscriptionId} [delete]
func (h *MappingHandler) Delete(c *gin.Context) {
	subscriptionID, err := pathID(c, "subscriptionId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), subscriptionID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
