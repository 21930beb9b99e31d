package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"evac_dispatch/internal/controllers"
)

func SetupRouter(ec *controllers.EvacuationController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	ZoneRoutes(r)
	VehicleRoutes(r)
	EvacuationRoutes(r, ec)

	return r
}
