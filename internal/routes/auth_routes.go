package routes

import (
	"github.com/gin-gonic/gin"

	"weyala/internal/controllers"
)

func AuthRoutes(r *gin.Engine, deps Deps) {
	ac := &controllers.AuthController{DB: deps.DB}

	auth := r.Group("/auth")
	{
		auth.POST("/signup", ac.Signup)
		auth.POST("/login", ac.Login)
	}
}
