package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

type SystemLogHandler struct {
	logs *services.SystemLogService
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{logs: services.NewSystemLogService(db)}
}

// List returns system logs with paging and optional level/module filters
// GET /api/system/logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.logs.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// Cleanup removes logs older than the given number of days
// DELETE /api/system/logs?days=30
func (h *SystemLogHandler) Cleanup(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "days must be a positive integer")
			return
		}
		days = parsed
	}

	deleted, err := h.logs.CleanupOlderThan(days)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}
