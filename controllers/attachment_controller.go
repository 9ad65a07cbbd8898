package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportaxial/reportaxial-api/services"
)

// AttachmentController handles problem attachment uploads
type AttachmentController struct {
	problems *services.ProblemService
}

// NewAttachmentController creates a new attachment controller
func NewAttachmentController(problems *services.ProblemService) *AttachmentController {
	return &AttachmentController{problems: problems}
}

// Upload handles POST /api/v1/problems/:id/attachment - uploads a photo or
// document for a problem owned by the caller's store
func (ac *AttachmentController) Upload(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": "A file is required in the 'file' form field",
			},
		})
		return
	}

	problem, err := ac.problems.AttachFile(c.Request.Context(), caller, problemID, fileHeader)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    problem,
	})
}
