package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/models"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of the service and its database.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	var memberCount int64
	models.GetDB().Model(&models.Member{}).Count(&memberCount)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "labregistry",
		"components": gin.H{
			"database": dbStatus,
			"members":  memberCount,
		},
	})
}
