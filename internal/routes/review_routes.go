package routes

import (
	"github.com/gin-gonic/gin"

	"weyala/internal/controllers"
	"weyala/internal/middleware"
)

func ReviewRoutes(r *gin.Engine, deps Deps) {
	rv := &controllers.ReviewController{Reviews: deps.Reviews}

	r.GET("/routes/:id/reviews", rv.List)
	r.POST("/routes/:id/reviews", middleware.RequireAuth(), rv.Create)
}
