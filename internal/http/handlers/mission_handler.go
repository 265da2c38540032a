// README: Mission lifecycle handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"navette/internal/modules/mission"
	"navette/internal/types"
)

type MissionHandler struct {
	missions *mission.Service
}

func NewMissionHandler(svc *mission.Service) *MissionHandler {
	return &MissionHandler{missions: svc}
}

func (h *MissionHandler) Get(c *gin.Context) {
	m, err := h.missions.Get(c.Request.Context(), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MissionHandler) ListByDriver(c *gin.Context) {
	ms, err := h.missions.ListByDriver(c.Request.Context(), festivalID(c), types.ID(c.Param("driverID")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": ms})
}

func (h *MissionHandler) Accept(c *gin.Context) {
	m, err := h.missions.Accept(c.Request.Context(), callerActor(c), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type declineReq struct {
	Reason string `json:"reason"`
}

func (h *MissionHandler) Decline(c *gin.Context) {
	var req declineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := h.missions.Decline(c.Request.Context(), callerActor(c), festivalID(c), types.ID(c.Param("id")), req.Reason)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MissionHandler) Start(c *gin.Context) {
	m, err := h.missions.Start(c.Request.Context(), callerActor(c), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MissionHandler) Complete(c *gin.Context) {
	m, err := h.missions.Complete(c.Request.Context(), callerActor(c), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
