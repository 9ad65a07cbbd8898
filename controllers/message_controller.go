package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportaxial/reportaxial-api/services"
)

// MessageController handles the conversation thread endpoints
type MessageController struct {
	problems *services.ProblemService
}

// NewMessageController creates a new message controller
func NewMessageController(problems *services.ProblemService) *MessageController {
	return &MessageController{problems: problems}
}

// PostMessageRequest represents the request body for posting a message
type PostMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// Post handles POST /api/v1/problems/:id/messages - appends a message to
// the problem's conversation thread
func (mc *MessageController) Post(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	var req PostMessageRequest
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

	message, err := mc.problems.PostMessage(c.Request.Context(), caller, problemID, req.Text)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// List handles GET /api/v1/problems/:id/messages - the full ordered thread
func (mc *MessageController) List(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	messages, err := mc.problems.ListMessages(c.Request.Context(), caller, problemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
