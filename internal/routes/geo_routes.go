package routes

import (
	"github.com/gin-gonic/gin"

	"weyala/internal/controllers"
)

func GeoRoutes(r *gin.Engine, deps Deps) {
	gc := &controllers.GeoController{Geo: deps.Geo}

	geo := r.Group("/geocode")
	{
		geo.GET("/search", gc.Search)
		geo.GET("/reverse", gc.Reverse)
	}
}
