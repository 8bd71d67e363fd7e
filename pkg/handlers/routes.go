package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every route onto the router. Shared by the server
// binary and the serverless entry point.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Crew Scheduling API",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/assignments/validate", h.ValidateAssignment)
		api.POST("/assignments", h.CreateAssignment)
		api.GET("/assignments", h.ListAssignments)
		api.DELETE("/assignments/:id", h.DeleteAssignment)

		api.GET("/conflicts", h.ScanConflicts)
		api.POST("/conflicts/suggestions", h.GetSuggestions)
		api.POST("/cache/clear", h.ClearCache)

		api.POST("/employees", h.CreateEmployee)
		api.DELETE("/employees/:id", h.DeactivateEmployee)
		api.POST("/projects", h.CreateProject)
		api.POST("/phases", h.CreatePhase)

		api.GET("/usage", h.GetMyUsage)
	}
}
