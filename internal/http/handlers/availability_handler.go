// README: Driver availability handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"navette/internal/modules/availability"
	"navette/internal/types"
)

type AvailabilityHandler struct {
	availability *availability.Service
}

func NewAvailabilityHandler(svc *availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{availability: svc}
}

type setAvailabilityReq struct {
	Day       string `json:"day"` // YYYY-MM-DD
	Slot      string `json:"slot"`
	Available bool   `json:"available"`
}

func parseDaySlot(day, slot string) (time.Time, availability.Slot, bool) {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Time{}, "", false
	}
	switch s := availability.Slot(slot); s {
	case availability.SlotMorning, availability.SlotAfternoon, availability.SlotEvening:
		return d, s, true
	default:
		return time.Time{}, "", false
	}
}

func (h *AvailabilityHandler) Set(c *gin.Context) {
	var req setAvailabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	day, slot, ok := parseDaySlot(req.Day, req.Slot)
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid day or slot")
		return
	}

	err := h.availability.Set(c.Request.Context(), availability.Availability{
		DriverID:   types.ID(c.Param("driverID")),
		FestivalID: festivalID(c),
		Day:        day,
		Slot:       slot,
		Available:  req.Available,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AvailabilityHandler) Clear(c *gin.Context) {
	day, slot, ok := parseDaySlot(c.Query("day"), c.Query("slot"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid day or slot")
		return
	}
	err := h.availability.Clear(c.Request.Context(), festivalID(c), types.ID(c.Param("driverID")), day, slot)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
