package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportaxial/reportaxial-api/services"
)

// ProblemController handles the problem reporting and lifecycle endpoints
type ProblemController struct {
	problems *services.ProblemService
}

// NewProblemController creates a new problem controller
func NewProblemController(problems *services.ProblemService) *ProblemController {
	return &ProblemController{problems: problems}
}

// UpdateObservationsRequest represents the request body for editing a problem
type UpdateObservationsRequest struct {
	Observations string `json:"observations" binding:"required"`
}

// MarkViewedRequest optionally names the side marking the problem viewed.
// The token role is authoritative; a mismatching body role is rejected.
type MarkViewedRequest struct {
	Role string `json:"role,omitempty"`
}

// Create handles POST /api/v1/problems - reports a new problem (stores only)
func (pc *ProblemController) Create(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	var req services.CreateProblemInput
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

	problem, err := pc.problems.CreateProblem(c.Request.Context(), caller, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    problem,
	})
}

// StoreQueue handles GET /api/v1/problems/store - the store's own problems
func (pc *ProblemController) StoreQueue(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problems, err := pc.problems.StoreQueue(c.Request.Context(), caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    problems,
	})
}

// SupplierQueue handles GET /api/v1/problems/supplier - the full queue
func (pc *ProblemController) SupplierQueue(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problems, err := pc.problems.SupplierQueue(c.Request.Context(), caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    problems,
	})
}

// Detail handles GET /api/v1/problems/:id - a single problem with its
// store summary, response and conversation thread
func (pc *ProblemController) Detail(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	problem, err := pc.problems.Detail(c.Request.Context(), caller, problemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    problem,
	})
}

// UpdateObservations handles PATCH /api/v1/problems/:id - edits the
// observations text without touching the lifecycle
func (pc *ProblemController) UpdateObservations(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	var req UpdateObservationsRequest
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

	problem, err := pc.problems.UpdateObservations(c.Request.Context(), caller, problemID, req.Observations)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    problem,
	})
}

// MarkViewed handles PATCH /api/v1/problems/:id/mark-viewed - records that
// the caller's side has seen the problem
func (pc *ProblemController) MarkViewed(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	var req MarkViewedRequest
	if c.Request.ContentLength > 0 {
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
	}

	if req.Role != "" && req.Role != caller.Role {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only mark a problem viewed for your own side",
			},
		})
		return
	}

	problem, err := pc.problems.MarkViewed(c.Request.Context(), caller, problemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    problem,
	})
}

// Resolve handles PATCH /api/v1/problems/:id/resolve - forces a problem to
// resolved (suppliers only, idempotent)
func (pc *ProblemController) Resolve(c *gin.Context) {
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	problem, err := pc.problems.Resolve(c.Request.Context(), caller, problemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    problem,
	})
}
