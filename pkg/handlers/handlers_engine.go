package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/models"
)

const dateLayout = "2006-01-02"

// ValidateAssignmentRequest is the pre-commit check payload.
type ValidateAssignmentRequest struct {
	PhaseID    string  `json:"phase_id" binding:"required"`
	EmployeeID string  `json:"employee_id" binding:"required"`
	Date       string  `json:"date" binding:"required"`
	Hours      float64 `json:"hours" binding:"required"`
}

// ValidateAssignment runs the synchronous pre-commit check for one proposed
// assignment without persisting anything.
func (h *Handler) ValidateAssignment(c *gin.Context) {
	req, date, ok := h.bindValidateRequest(c)
	if !ok {
		return
	}

	result, err := h.Engine.ValidateAssignment(c.Request.Context(), req.PhaseID, req.EmployeeID, date, req.Hours)
	if err != nil {
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.RecordUsage(c, 1, 0)
	c.JSON(http.StatusOK, result)
}

// ScanConflicts runs a conflict audit over the active working set, narrowed
// by optional employee_id/phase_id query parameters. Results may come from
// the scan cache.
func (h *Handler) ScanConflicts(c *gin.Context) {
	filter := engine.ScopeFilter{
		EmployeeID: c.Query("employee_id"),
		PhaseID:    c.Query("phase_id"),
	}

	conflicts, err := h.Engine.ScanConflicts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, gin.H{
		"conflicts": conflicts,
		"count":     len(conflicts),
	})
}

// GetSuggestions returns ranked remediation proposals for one conflict, as
// previously returned by a scan.
func (h *Handler) GetSuggestions(c *gin.Context) {
	var conflict models.Conflict
	if err := c.ShouldBindJSON(&conflict); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if conflict.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conflict type is required"})
		return
	}

	suggestions, err := h.Engine.GetResolutionSuggestions(c.Request.Context(), conflict)
	if err != nil {
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ClearCache drops all cached scan results.
func (h *Handler) ClearCache(c *gin.Context) {
	h.Engine.ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "Conflict cache cleared"})
}

func (h *Handler) bindValidateRequest(c *gin.Context) (ValidateAssignmentRequest, time.Time, bool) {
	var req ValidateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, time.Time{}, false
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return req, time.Time{}, false
	}
	return req, date, true
}

// engineStatus maps the engine's error taxonomy onto HTTP statuses.
func engineStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
