// README: Tracking handlers: position reports, current position, history, ETA.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"navette/internal/modules/tracking"
	"navette/internal/types"
)

type TrackingHandler struct {
	tracking *tracking.Service
}

func NewTrackingHandler(svc *tracking.Service) *TrackingHandler {
	return &TrackingHandler{tracking: svc}
}

type recordPositionReq struct {
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	AccuracyM  float64    `json:"accuracy_m"`
	HeadingDeg float64    `json:"heading_deg"`
	SpeedKmh   float64    `json:"speed_kmh"`
	RecordedAt *time.Time `json:"recorded_at"`
}

func (h *TrackingHandler) Record(c *gin.Context) {
	var req recordPositionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	sample := &tracking.Sample{
		MissionID:  types.ID(c.Param("id")),
		Position:   types.Point{Lat: req.Lat, Lng: req.Lng},
		AccuracyM:  req.AccuracyM,
		HeadingDeg: req.HeadingDeg,
		SpeedKmh:   req.SpeedKmh,
	}
	if req.RecordedAt != nil {
		sample.RecordedAt = *req.RecordedAt
	}

	if err := h.tracking.Record(c.Request.Context(), festivalID(c), sample); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sample)
}

func (h *TrackingHandler) Current(c *gin.Context) {
	cur, err := h.tracking.Current(c.Request.Context(), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *TrackingHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	samples, err := h.tracking.History(c.Request.Context(), festivalID(c), types.ID(c.Param("id")), limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples})
}

func (h *TrackingHandler) Estimate(c *gin.Context) {
	est, err := h.tracking.Estimate(c.Request.Context(), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}
