// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"navette/internal/http/handlers"
	"navette/internal/http/middleware"
	"navette/internal/modules/assignment"
	"navette/internal/modules/availability"
	"navette/internal/modules/driver"
	"navette/internal/modules/mission"
	"navette/internal/modules/tracking"
	"navette/internal/modules/transport"
)

type RouterDeps struct {
	Transport    *transport.Service
	Drivers      *driver.Service
	Availability *availability.Service
	Assignment   *assignment.Engine
	Missions     *mission.Service
	Tracking     *tracking.Service
	JWTSecret    string
	Log          *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/festivals/:festivalID")
	api.Use(middleware.Auth(deps.JWTSecret), middleware.FestivalScope())

	transportHandler := handlers.NewTransportHandler(deps.Transport)
	api.POST("/requests", transportHandler.Create)
	api.GET("/requests", transportHandler.List)
	api.GET("/requests/:id", transportHandler.Get)
	api.POST("/requests/:id/cancel", transportHandler.Cancel)

	assignmentHandler := handlers.NewAssignmentHandler(deps.Assignment)
	api.GET("/requests/:id/suggestions", assignmentHandler.Suggest)
	api.POST("/requests/:id/assign", assignmentHandler.Assign)
	api.POST("/requests/:id/auto-assign", assignmentHandler.AutoAssign)
	api.POST("/requests/auto-assign", assignmentHandler.AutoAssignMany)

	missionHandler := handlers.NewMissionHandler(deps.Missions)
	api.GET("/missions/:id", missionHandler.Get)
	api.POST("/missions/:id/accept", missionHandler.Accept)
	api.POST("/missions/:id/decline", missionHandler.Decline)
	api.POST("/missions/:id/start", missionHandler.Start)
	api.POST("/missions/:id/complete", missionHandler.Complete)

	trackingHandler := handlers.NewTrackingHandler(deps.Tracking)
	api.POST("/missions/:id/position", trackingHandler.Record)
	api.GET("/missions/:id/position", trackingHandler.Current)
	api.GET("/missions/:id/positions", trackingHandler.History)
	api.GET("/missions/:id/eta", trackingHandler.Estimate)

	driverHandler := handlers.NewDriverHandler(deps.Drivers)
	api.GET("/drivers", driverHandler.List)
	api.GET("/drivers/:driverID", driverHandler.Get)
	api.GET("/drivers/:driverID/missions", missionHandler.ListByDriver)

	availabilityHandler := handlers.NewAvailabilityHandler(deps.Availability)
	api.PUT("/drivers/:driverID/availability", availabilityHandler.Set)
	api.DELETE("/drivers/:driverID/availability", availabilityHandler.Clear)

	return r
}
