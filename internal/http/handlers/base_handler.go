// README: Shared handler helpers (caller identity, domain error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"navette/internal/http/middleware"
	"navette/internal/modules/assignment"
	"navette/internal/modules/driver"
	"navette/internal/modules/mission"
	"navette/internal/modules/tracking"
	"navette/internal/modules/transport"
	"navette/internal/types"
)

func callerID(c *gin.Context) types.ID {
	return types.ID(c.GetString(middleware.CallerIDKey))
}

func callerActor(c *gin.Context) mission.Actor {
	return mission.Actor{
		ID:   callerID(c),
		Role: c.GetString(middleware.CallerRoleKey),
	}
}

func festivalID(c *gin.Context) types.ID {
	return types.ID(c.Param("festivalID"))
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// writeDomainError maps module sentinels to HTTP statuses; anything
// unrecognized is a 500 with the detail kept out of the response.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, transport.ErrNotFound),
		errors.Is(err, mission.ErrNotFound),
		errors.Is(err, driver.ErrNotFound),
		errors.Is(err, tracking.ErrNoCurrentPosition):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, transport.ErrBadRequest),
		errors.Is(err, mission.ErrMissingDeclineReason):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, mission.ErrUnauthorized):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, transport.ErrInvalidState),
		errors.Is(err, transport.ErrConflict),
		errors.Is(err, mission.ErrInvalidTransition),
		errors.Is(err, mission.ErrConflict),
		errors.Is(err, assignment.ErrNoDriverAvailable),
		errors.Is(err, assignment.ErrDriverUnavailable),
		errors.Is(err, tracking.ErrNoDestination):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
