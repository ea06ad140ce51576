package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"weyala/internal/directions"
	"weyala/internal/services"
)

// Deps carries the explicitly constructed services handed to every
// controller.
type Deps struct {
	DB         *gorm.DB
	Routes     *services.RouteService
	Reviews    *services.ReviewService
	Geo        *services.GeoService
	Directions *directions.Client
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(ginlogger.SetLogger())
	r.Use(gin.Recovery())

	AuthRoutes(r, deps)
	RouteRoutes(r, deps)
	ReviewRoutes(r, deps)
	GeoRoutes(r, deps)

	return r
}
