// README: Driver roster handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"navette/internal/modules/driver"
	"navette/internal/types"
)

type DriverHandler struct {
	drivers *driver.Service
}

func NewDriverHandler(svc *driver.Service) *DriverHandler {
	return &DriverHandler{drivers: svc}
}

func (h *DriverHandler) Get(c *gin.Context) {
	d, err := h.drivers.Get(c.Request.Context(), festivalID(c), types.ID(c.Param("driverID")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DriverHandler) List(c *gin.Context) {
	ds, err := h.drivers.ListByFestival(c.Request.Context(), festivalID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": ds})
}
