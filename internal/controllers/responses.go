package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weyala/internal/services"
)

// respond writes a service result with the HTTP status implied by its code.
func respond(c *gin.Context, res services.Result) {
	c.JSON(statusFor(res), res)
}

func statusFor(res services.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Code {
	case services.CodeUnauthenticated:
		return http.StatusUnauthorized
	case services.CodeForbidden:
		return http.StatusForbidden
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeRateLimited:
		return http.StatusTooManyRequests
	case services.CodeValidationError:
		return http.StatusBadRequest
	case services.CodeDuplicateReview:
		return http.StatusConflict
	case services.CodeUpstreamError:
		return http.StatusBadGateway
	case services.CodeConfigurationError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
