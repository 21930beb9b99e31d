package routes

import (
	"github.com/gin-gonic/gin"

	"evac_dispatch/internal/controllers"
	"evac_dispatch/internal/middleware"
)

func ZoneRoutes(r *gin.Engine) {
	zones := r.Group("/zones")
	{
		zones.GET("/", controllers.ListZones)
		zones.GET("/active", controllers.ListActiveZones)
		zones.GET("/:id", controllers.GetZone)
	}

	protected := r.Group("/zones")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/", controllers.CreateZone)
		protected.PUT("/:id", controllers.UpdateZone)
		protected.DELETE("/:id", controllers.DeleteZone)
	}
}
