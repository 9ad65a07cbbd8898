package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reportaxial/reportaxial-api/middleware"
	"github.com/reportaxial/reportaxial-api/services"
	"github.com/reportaxial/reportaxial-api/utils"
)

// identityFromContext builds the caller identity from the validated session
// token. On failure it writes the 401 envelope and returns false.
func identityFromContext(c *gin.Context) (services.Identity, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		unauthorized(c)
		return services.Identity{}, false
	}

	role, err := middleware.GetRole(c)
	if err != nil {
		unauthorized(c)
		return services.Identity{}, false
	}

	return services.Identity{UserID: userID, Role: role}, true
}

// problemIDParam parses the :id path parameter. On failure it writes the
// 400 envelope and returns false.
func problemIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": "Problem ID must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}

func unauthorized(c *gin.Context) {
	c.PureJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not extract user information",
		},
	})
}

// handleServiceError translates a service error into the HTTP envelope.
// Internal causes are logged and never leak to the caller.
func handleServiceError(c *gin.Context, err error) {
	code := services.CodeOf(err)

	var status int
	switch code {
	case services.CodeUnauthorized:
		status = http.StatusUnauthorized
	case services.CodeForbidden:
		status = http.StatusForbidden
	case services.CodeNotFound:
		status = http.StatusNotFound
	case services.CodeInvalidInput:
		status = http.StatusBadRequest
	case services.CodeConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		utils.GetLogger().Error("Unexpected failure",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.PureJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": services.MessageOf(err),
		},
	})
}
