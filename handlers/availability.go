package handlers

import (
	"net/http"

	"velora/middleware"
	"velora/services/availability"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes a provider's weekly windows and blocked dates.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// CreateTimeSlot handles POST /api/timeslots.
func (h *AvailabilityHandler) CreateTimeSlot(c *gin.Context) {
	var req availability.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slot, err := h.Service.CreateTimeSlot(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// UpdateTimeSlot handles PUT /api/timeslots/:id.
func (h *AvailabilityHandler) UpdateTimeSlot(c *gin.Context) {
	var req availability.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slot, err := h.Service.UpdateTimeSlot(c.Request.Context(), c.Param("id"), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteTimeSlot handles DELETE /api/timeslots/:id.
func (h *AvailabilityHandler) DeleteTimeSlot(c *gin.Context) {
	if err := h.Service.DeleteTimeSlot(c.Request.Context(), c.Param("id"), middleware.ActorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTimeSlots handles GET /api/providers/:id/timeslots.
func (h *AvailabilityHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.Service.ListTimeSlots(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeSlots": slots})
}

// BlockDate handles POST /api/blocked-dates.
func (h *AvailabilityHandler) BlockDate(c *gin.Context) {
	var req availability.BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	blocked, err := h.Service.BlockDate(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blocked)
}

// UnblockDate handles DELETE /api/blocked-dates/:id.
func (h *AvailabilityHandler) UnblockDate(c *gin.Context) {
	if err := h.Service.UnblockDate(c.Request.Context(), c.Param("id"), middleware.ActorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBlockedDates handles GET /api/providers/:id/blocked-dates.
func (h *AvailabilityHandler) ListBlockedDates(c *gin.Context) {
	blocked, err := h.Service.ListBlockedDates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blockedDates": blocked})
}
