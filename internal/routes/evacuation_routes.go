package routes

import (
	"github.com/gin-gonic/gin"

	"evac_dispatch/internal/controllers"
	"evac_dispatch/internal/middleware"
)

func EvacuationRoutes(r *gin.Engine, ec *controllers.EvacuationController) {
	evac := r.Group("/evacuations")
	{
		evac.GET("/status", ec.GetStatuses)
	}

	protected := r.Group("/evacuations")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/plan", ec.GeneratePlans)
		protected.PUT("/update", ec.UpdateStatus)
	}

	admin := r.Group("/evacuations")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.DELETE("/clear", ec.ClearPlans)
	}
}
