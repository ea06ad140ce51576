package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weyala/internal/services"
)

type GeoController struct {
	Geo *services.GeoService
}

func (g *GeoController) Search(c *gin.Context) {
	respond(c, g.Geo.Search(c.Request.Context(), c.Query("text")))
}

func (g *GeoController) Reverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, services.Result{
			Success: false,
			Code:    services.CodeValidationError,
			Message: "lat and lng must be valid coordinates",
		})
		return
	}
	respond(c, g.Geo.Reverse(c.Request.Context(), lat, lng))
}
