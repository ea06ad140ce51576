package main

import (
	"log"
	"net/http"

	"weyala/internal/clock"
	"weyala/internal/config"
	"weyala/internal/directions"
	"weyala/internal/geocode"
	"weyala/internal/logger"
	"weyala/internal/middleware"
	"weyala/internal/routes"
	"weyala/internal/services"
)

func main() {
	config.Load()

	// Initialize structured logging to file
	logger.Setup()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	deps := routes.Deps{
		DB:         db,
		Routes:     services.NewRouteService(db, clock.Real{}, config.RateLimitWindow()),
		Reviews:    services.NewReviewService(db),
		Geo:        &services.GeoService{Geocoder: geocode.NewFromEnv()},
		Directions: directions.NewFromEnv(),
	}

	r := routes.SetupRouter(deps)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + config.GetEnv("PORT", "8080")
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
