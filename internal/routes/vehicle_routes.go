package routes

import (
	"github.com/gin-gonic/gin"

	"evac_dispatch/internal/controllers"
	"evac_dispatch/internal/middleware"
)

func VehicleRoutes(r *gin.Engine) {
	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("/", controllers.ListVehicles)
		vehicles.GET("/available", controllers.ListAvailableVehicles)
		vehicles.GET("/:id", controllers.GetVehicle)
	}

	protected := r.Group("/vehicles")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/", controllers.CreateVehicle)
		protected.PUT("/:id", controllers.UpdateVehicle)
		protected.DELETE("/:id", controllers.DeleteVehicle)
	}
}
