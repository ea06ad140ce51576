package routes

import (
	"github.com/gin-gonic/gin"

	"weyala/internal/controllers"
	"weyala/internal/middleware"
)

func RouteRoutes(r *gin.Engine, deps Deps) {
	rc := &controllers.RouteController{Routes: deps.Routes, Directions: deps.Directions}

	// Browsing is public; the map fetches these without a session.
	public := r.Group("/routes")
	{
		public.GET("", rc.List)
		public.GET("/:id", rc.Get)
		public.GET("/:id/polyline", rc.Polyline)
	}

	authed := r.Group("/routes")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("", rc.Create)
		authed.PUT("/:id", rc.Update)
		authed.DELETE("/:id", rc.Delete)
	}
}
