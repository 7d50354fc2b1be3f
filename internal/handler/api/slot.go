package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "parkspot/internal/handler/dto/request"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/handler/httperr"
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	commands commands.SlotCommands
	queries  queries.SlotQueries
}

func NewSlotHandler(cmds commands.SlotCommands, qrs queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		commands: cmds,
		queries:  qrs,
	}
}

// @Summary Create slot
// @Description Register a parking slot
// @Tags slots
// @Accept json
// @Produce json
// @Param request body reqdto.CreateSlotRequest true "Slot"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /slots [post]
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req reqdto.CreateSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.commands.CreateSlot(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSlotNumberTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot number already taken on this floor",
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

	c.JSON(http.StatusCreated, resdto.FromSlotView(view))
}

// @Summary Get slot
// @Description Get slot by ID
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /slots/{id} [get]
func (h *SlotHandler) GetSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Set physical availability
// @Description Flip the manual availability flag; existing bookings are untouched
// @Tags slots
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body reqdto.SetAvailabilityRequest true "Availability flag"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /slots/{id}/availability [patch]
func (h *SlotHandler) SetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	var req reqdto.SetAvailabilityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.PhysicallyAvailable == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "physically_available is required",
		})
		return
	}

	view, err := h.commands.SetPhysicallyAvailable(c.Request.Context(), id, *req.PhysicallyAvailable)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary List available slots
// @Description List slots free at this instant: physically available and no booking covering now
// @Tags slots
// @Produce json
// @Param has_charger query boolean false "Filter by charger"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Router /slots/available [get]
func (h *SlotHandler) ListAvailable(c *gin.Context) {
	var hasCharger *bool
	if v := c.Query("has_charger"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "has_charger must be a boolean",
			})
			return
		}
		hasCharger = &parsed
	}

	views, err := h.queries.ListAvailableNow(c.Request.Context(), hasCharger)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.SlotResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromSlotView(view)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Check slot availability
// @Description Check whether a slot is free at a given instant (defaults to now)
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Param at query string false "Instant to check, ISO-8601 with milliseconds and Z suffix"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /slots/{id}/availability [get]
func (h *SlotHandler) CheckAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	var (
		at        *apitime.UTCMillis
		available bool
	)
	if v := c.Query("at"); v != "" {
		t, parseErr := apitime.Parse(v)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "at must be ISO-8601 with milliseconds and Z suffix",
			})
			return
		}
		at = &apitime.UTCMillis{Time: t}
		available, err = h.queries.IsAvailableAt(c.Request.Context(), id, t)
	} else {
		available, err = h.queries.IsAvailableNow(c.Request.Context(), id)
	}
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.AvailabilityResponse{SlotID: id, At: at, Available: available})
}

// @Summary List pricing rules for a slot
// @Description List all pricing rules attached to a slot, newest first
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {array} resdto.PricingRuleResponse
// @Failure 400 {object} map[string]string
// @Router /slots/{id}/pricing-rules [get]
func (h *SlotHandler) ListPricingRules(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	views, err := h.queries.ListRules(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.PricingRuleResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromPricingRuleView(view)
	}

	c.JSON(http.StatusOK, response)
}
