package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportaxial/reportaxial-api/services"
)

// ResponseController handles the supplier's formal response endpoint
type ResponseController struct {
	problems *services.ProblemService
}

// NewResponseController creates a new response controller
func NewResponseController(problems *services.ProblemService) *ResponseController {
	return &ResponseController{problems: problems}
}

// RespondRequest represents the request body for a formal response
type RespondRequest struct {
	Text string `json:"text" binding:"required"`
}

// Respond handles POST /api/v1/problems/:id/respond - creates or replaces
// the supplier's formal response (latest wins)
func (rc *ResponseController) Respond(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	response, err := rc.problems.UpsertResponse(c.Request.Context(), caller, problemID, req.Text)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    response,
	})
}
