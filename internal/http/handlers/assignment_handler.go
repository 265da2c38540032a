// README: Assignment handlers: suggestions, auto/manual assignment, batch.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"navette/internal/modules/assignment"
	"navette/internal/types"
)

type AssignmentHandler struct {
	engine *assignment.Engine
}

func NewAssignmentHandler(engine *assignment.Engine) *AssignmentHandler {
	return &AssignmentHandler{engine: engine}
}

type suggestionResp struct {
	DriverID       types.ID             `json:"driver_id"`
	FullName       string               `json:"full_name"`
	Score          int                  `json:"score"`
	Breakdown      assignment.Breakdown `json:"breakdown"`
	Available      bool                 `json:"available"`
	ActiveMissions int                  `json:"active_missions"`
	DistanceKm     *float64             `json:"distance_km,omitempty"`
	Reason         string               `json:"reason"`
}

func (h *AssignmentHandler) Suggest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	suggestions, err := h.engine.Suggest(c.Request.Context(), festivalID(c), types.ID(c.Param("id")), limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := make([]suggestionResp, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, suggestionResp{
			DriverID:       s.Driver.ID,
			FullName:       s.Driver.FullName,
			Score:          s.Score,
			Breakdown:      s.Breakdown,
			Available:      s.Available,
			ActiveMissions: s.ActiveMissions,
			DistanceKm:     s.DistanceKm,
			Reason:         s.Reason,
		})
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": resp})
}

func (h *AssignmentHandler) AutoAssign(c *gin.Context) {
	m, err := h.engine.AutoAssign(c.Request.Context(), festivalID(c), types.ID(c.Param("id")), callerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

type assignReq struct {
	DriverID string `json:"driver_id"`
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver_id")
		return
	}
	m, err := h.engine.Assign(c.Request.Context(), festivalID(c), types.ID(c.Param("id")), types.ID(req.DriverID), callerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

type batchAssignReq struct {
	RequestIDs []string `json:"request_ids"`
}

type batchResultResp struct {
	RequestID types.ID `json:"request_id"`
	MissionID types.ID `json:"mission_id,omitempty"`
	DriverID  types.ID `json:"driver_id,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func (h *AssignmentHandler) AutoAssignMany(c *gin.Context) {
	var req batchAssignReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.RequestIDs) == 0 {
		writeError(c, http.StatusBadRequest, "missing request_ids")
		return
	}

	ids := make([]types.ID, 0, len(req.RequestIDs))
	for _, id := range req.RequestIDs {
		ids = append(ids, types.ID(id))
	}

	results := h.engine.AutoAssignMany(c.Request.Context(), festivalID(c), ids, callerID(c))
	resp := make([]batchResultResp, 0, len(results))
	for _, r := range results {
		out := batchResultResp{RequestID: r.RequestID}
		if r.Mission != nil {
			out.MissionID = r.Mission.ID
			out.DriverID = r.Mission.DriverID
		}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		resp = append(resp, out)
	}
	// The batch itself succeeds even when individual requests fail.
	c.JSON(http.StatusOK, gin.H{"results": resp})
}
