package api

import (
	"errors"
	"net/http"

	reqdto "parkspot/internal/handler/dto/request"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/handler/httperr"
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PricingHandler struct {
	commands commands.PricingCommands
}

func NewPricingHandler(cmds commands.PricingCommands) *PricingHandler {
	return &PricingHandler{commands: cmds}
}

// @Summary Create pricing rule
// @Description Attach a time-windowed price to a slot; windows of active rules on one slot must not overlap
// @Tags pricing-rules
// @Accept json
// @Produce json
// @Param request body reqdto.CreatePricingRuleRequest true "Pricing rule"
// @Success 201 {object} resdto.PricingRuleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /pricing-rules [post]
func (h *PricingHandler) CreateRule(c *gin.Context) {
	var req reqdto.CreatePricingRuleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		if errors.Is(bindErr, apitime.ErrInvalidTimestamp) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Timestamps must be ISO-8601 with milliseconds and Z suffix",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	if validErr := req.Validate(); validErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validErr.Error(),
		})
		return
	}

	view, err := h.commands.CreateRule(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		case errors.Is(err, commands.ErrInvalidInterval):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Start time must be strictly before end time",
			})
		case errors.Is(err, commands.ErrRuleOverlap):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Rule window overlaps an existing active rule on this slot",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPricingRuleView(view))
}

// @Summary Delete pricing rule
// @Description Remove a pricing rule; existing bookings keep their frozen price
// @Tags pricing-rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pricing-rules/{id} [delete]
func (h *PricingHandler) DeleteRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid rule ID format",
		})
		return
	}

	if err := h.commands.DeleteRule(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrRuleNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Pricing rule not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
