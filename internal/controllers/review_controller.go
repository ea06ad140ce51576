package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weyala/internal/middleware"
	"weyala/internal/services"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func (rv *ReviewController) Create(c *gin.Context) {
	id, parsed := routeID(c)
	if !parsed {
		return
	}

	var input struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, services.Result{
			Success: false,
			Code:    services.CodeValidationError,
			Message: "Invalid input: " + err.Error(),
		})
		return
	}

	res := rv.Reviews.Submit(middleware.UserID(c), id, input.Rating, input.Comment)
	if res.Success {
		c.JSON(http.StatusCreated, res)
		return
	}
	respond(c, res)
}

func (rv *ReviewController) List(c *gin.Context) {
	id, parsed := routeID(c)
	if !parsed {
		return
	}
	respond(c, rv.Reviews.ListForRoute(id))
}
