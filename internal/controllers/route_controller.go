package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weyala/internal/directions"
	"weyala/internal/middleware"
	"weyala/internal/services"
)

// RouteController maps the route CRUD and polyline endpoints onto the
// service layer.
type RouteController struct {
	Routes     *services.RouteService
	Directions *directions.Client
}

func routeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, services.Result{
			Success: false,
			Code:    services.CodeValidationError,
			Message: "Invalid route ID",
		})
		return 0, false
	}
	return uint(id), true
}

// List returns all routes with stops and aggregate ratings, newest first.
func (rc *RouteController) List(c *gin.Context) {
	respond(c, rc.Routes.List())
}

func (rc *RouteController) Get(c *gin.Context) {
	id, parsed := routeID(c)
	if !parsed {
		return
	}
	respond(c, rc.Routes.Get(id))
}

func (rc *RouteController) Create(c *gin.Context) {
	var input services.RouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, services.Result{
			Success: false,
			Code:    services.CodeValidationError,
			Message: "Invalid input: " + err.Error(),
		})
		return
	}

	res := rc.Routes.Submit(middleware.UserID(c), input)
	if res.Success {
		c.JSON(http.StatusCreated, res)
		return
	}
	respond(c, res)
}

func (rc *RouteController) Update(c *gin.Context) {
	id, parsed := routeID(c)
	if !parsed {
		return
	}

	var input services.RouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, services.Result{
			Success: false,
			Code:    services.CodeValidationError,
			Message: "Invalid input: " + err.Error(),
		})
		return
	}

	respond(c, rc.Routes.Update(middleware.UserID(c), id, input))
}

func (rc *RouteController) Delete(c *gin.Context) {
	id, parsed := routeID(c)
	if !parsed {
		return
	}
	respond(c, rc.Routes.Delete(middleware.UserID(c), id))
}

// Polyline resolves the driving path for a route through its ordered stops.
// The response marks whether the path follows the road network or is the
// straight-line fallback.
func (rc *RouteController) Polyline(c *gin.Context) {
	id, parsed := routeID(c)
	if !parsed {
		return
	}

	res := rc.Routes.Get(id)
	if !res.Success {
		respond(c, res)
		return
	}
	view := res.Data.(services.RouteView)

	points := make([]directions.Point, 0, len(view.Stops)+2)
	points = append(points, directions.Point{Lat: view.StartLat, Lng: view.StartLng})
	for _, stop := range view.Stops {
		// Stops submitted without coordinates carry 0,0 and are skipped.
		if stop.Lat != 0 || stop.Lng != 0 {
			points = append(points, directions.Point{Lat: stop.Lat, Lng: stop.Lng})
		}
	}
	points = append(points, directions.Point{Lat: view.EndLat, Lng: view.EndLng})

	path, road := rc.Directions.DrivingPath(c.Request.Context(), points)
	source := "straight_line"
	if road {
		source = "road"
	}
	respond(c, services.Result{Success: true, Data: gin.H{
		"positions": path,
		"source":    source,
	}})
}
