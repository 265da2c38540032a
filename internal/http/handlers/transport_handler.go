// README: Transport request handlers for create/get/list/cancel.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"navette/internal/modules/transport"
	"navette/internal/types"
)

type TransportHandler struct {
	transport *transport.Service
}

func NewTransportHandler(svc *transport.Service) *TransportHandler {
	return &TransportHandler{transport: svc}
}

type createRequestReq struct {
	RequesterID    string    `json:"requester_id"`
	PickupAddress  string    `json:"pickup_address"`
	DropoffAddress string    `json:"dropoff_address"`
	PickupLat      *float64  `json:"pickup_lat"`
	PickupLng      *float64  `json:"pickup_lng"`
	DropoffLat     *float64  `json:"dropoff_lat"`
	DropoffLng     *float64  `json:"dropoff_lng"`
	RequestedAt    time.Time `json:"requested_at"`
	PassengerCount int       `json:"passenger_count"`
	TransportType  string    `json:"transport_type"`
}

func (h *TransportHandler) Create(c *gin.Context) {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	cmd := transport.CreateCommand{
		FestivalID:     festivalID(c),
		RequesterID:    types.ID(req.RequesterID),
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		RequestedAt:    req.RequestedAt,
		PassengerCount: req.PassengerCount,
		TransportType:  req.TransportType,
	}
	if req.PickupLat != nil && req.PickupLng != nil {
		cmd.Pickup = &types.Point{Lat: *req.PickupLat, Lng: *req.PickupLng}
	}
	if req.DropoffLat != nil && req.DropoffLng != nil {
		cmd.Dropoff = &types.Point{Lat: *req.DropoffLat, Lng: *req.DropoffLng}
	}

	r, err := h.transport.Create(c.Request.Context(), cmd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *TransportHandler) Get(c *gin.Context) {
	r, err := h.transport.Get(c.Request.Context(), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *TransportHandler) List(c *gin.Context) {
	status := transport.Status(c.Query("status"))
	rs, err := h.transport.ListByFestival(c.Request.Context(), festivalID(c), status)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": rs})
}

func (h *TransportHandler) Cancel(c *gin.Context) {
	err := h.transport.Cancel(c.Request.Context(), festivalID(c), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
