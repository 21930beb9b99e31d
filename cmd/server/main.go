package main

import (
	"log"
	"net/http"
	"os"

	"evac_dispatch/internal/cache"
	"evac_dispatch/internal/config"
	"evac_dispatch/internal/controllers"
	"evac_dispatch/internal/logger"
	"evac_dispatch/internal/middleware"
	"evac_dispatch/internal/routes"
	"evac_dispatch/internal/services"
	"evac_dispatch/internal/storage"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database and redis
	config.InitDB()
	rdb := config.NewRedisClient()

	store := storage.NewGormStore(config.GetDB())
	statusCache := cache.NewRedisStatusCache(rdb)

	planSvc := services.NewPlanService(store, statusCache)
	statusSvc := services.NewStatusService(store, statusCache)
	ec := controllers.NewEvacuationController(planSvc, statusSvc)

	r := routes.SetupRouter(ec)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running at :" + port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+port, handler))
}
