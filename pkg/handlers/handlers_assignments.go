package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmorales/crewsched-api-go/pkg/database"
)

// CreateAssignment validates a proposed assignment and persists it only when
// no blocking conflict is found. Warnings are returned alongside the created
// record. Any write clears the conflict cache.
func (h *Handler) CreateAssignment(c *gin.Context) {
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

	if !result.IsValid {
		c.JSON(http.StatusConflict, result)
		return
	}

	row := database.Assignment{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		PhaseID:    req.PhaseID,
		Date:       date,
		Hours:      req.Hours,
		CreatedBy:  c.GetString("userID"),
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create assignment"})
		return
	}
	h.Engine.ClearCache()

	c.JSON(http.StatusCreated, gin.H{
		"assignment": row,
		"warnings":   result.Warnings,
	})
}

// DeleteAssignment removes an assignment and clears the conflict cache.
func (h *Handler) DeleteAssignment(c *gin.Context) {
	id := c.Param("id")
	res := h.DB.Delete(&database.Assignment{}, "id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete assignment"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}
	h.Engine.ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}

// ListAssignments returns assignments, optionally narrowed by employee_id or
// phase_id query parameters.
func (h *Handler) ListAssignments(c *gin.Context) {
	q := h.DB.Model(&database.Assignment{})
	if empID := c.Query("employee_id"); empID != "" {
		q = q.Where("employee_id = ?", empID)
	}
	if phaseID := c.Query("phase_id"); phaseID != "" {
		q = q.Where("phase_id = ?", phaseID)
	}

	var rows []database.Assignment
	if err := q.Order("date, id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": rows})
}

// CreateEmployee persists a new employee record.
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req struct {
		ID          string   `json:"id"`
		Name        string   `json:"name" binding:"required"`
		Division    string   `json:"division" binding:"required"`
		WeeklyHours float64  `json:"weekly_hours"`
		DailyHours  float64  `json:"daily_hours"`
		Skills      []string `json:"skills"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	row := database.Employee{
		ID:          req.ID,
		Name:        req.Name,
		Division:    req.Division,
		IsActive:    true,
		WeeklyHours: req.WeeklyHours,
		DailyHours:  req.DailyHours,
		Skills:      strings.Join(req.Skills, ","),
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create employee"})
		return
	}
	h.Engine.ClearCache()
	c.JSON(http.StatusCreated, row)
}

// DeactivateEmployee marks an employee inactive. Existing assignments are not
// dropped; the next scan flags them.
func (h *Handler) DeactivateEmployee(c *gin.Context) {
	id := c.Param("id")
	res := h.DB.Model(&database.Employee{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate employee"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	h.Engine.ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "Employee deactivated"})
}

// CreateProject persists a new project record.
func (h *Handler) CreateProject(c *gin.Context) {
	var req struct {
		ID        string `json:"id"`
		Name      string `json:"name" binding:"required"`
		Division  string `json:"division" binding:"required"`
		Status    string `json:"status"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = "PLANNED"
	}

	row := database.Project{
		ID:        req.ID,
		Name:      req.Name,
		Division:  req.Division,
		Status:    req.Status,
		StartDate: start,
		EndDate:   end,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create project"})
		return
	}
	h.Engine.ClearCache()
	c.JSON(http.StatusCreated, row)
}

// CreatePhase persists a new phase under an existing project.
func (h *Handler) CreatePhase(c *gin.Context) {
	var req struct {
		ID           string  `json:"id"`
		ProjectID    string  `json:"project_id" binding:"required"`
		Name         string  `json:"name" binding:"required"`
		StartDate    string  `json:"start_date" binding:"required"`
		EndDate      string  `json:"end_date" binding:"required"`
		CrewSize     int     `json:"crew_size"`
		NeedsForeman bool    `json:"needs_foreman"`
		Journeymen   int     `json:"journeymen"`
		Apprentices  int     `json:"apprentices"`
		ProgressPct  float64 `json:"progress_pct"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}
	if req.ProgressPct < 0 || req.ProgressPct > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress_pct must be between 0 and 100"})
		return
	}

	var project database.Project
	if err := h.DB.First(&project, "id = ?", req.ProjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	row := database.Phase{
		ID:           req.ID,
		ProjectID:    req.ProjectID,
		Name:         req.Name,
		StartDate:    start,
		EndDate:      end,
		CrewSize:     req.CrewSize,
		NeedsForeman: req.NeedsForeman,
		Journeymen:   req.Journeymen,
		Apprentices:  req.Apprentices,
		ProgressPct:  req.ProgressPct,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create phase"})
		return
	}
	h.Engine.ClearCache()
	c.JSON(http.StatusCreated, row)
}

// parseDateRange parses two YYYY-MM-DD dates and rejects inverted ranges.
func parseDateRange(c *gin.Context, startStr, endStr string) (time.Time, time.Time, bool) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be formatted YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not precede start_date"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
