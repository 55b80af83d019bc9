package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
)

// WorkHandler records weekly work assignments.
type WorkHandler struct {
	work *services.WorkService
}

func NewWorkHandler(work *services.WorkService) *WorkHandler {
	return &WorkHandler{work: work}
}

func (h *WorkHandler) Record(c *gin.Context) {
	var req services.RecordWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.work.RecordWork(&req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, assignment)
}

func (h *WorkHandler) Delete(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		response.BadRequest(c, "invalid week")
		return
	}

	if err := h.work.DeleteWork(c.Param("pid"), c.Param("mid"), week); err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "work assignment deleted"})
}

// WeeklyTotal reports a member's summed hours for a week.
func (h *WorkHandler) WeeklyTotal(c *gin.Context) {
	week, err := strconv.Atoi(c.Query("week"))
	if err != nil {
		response.BadRequest(c, "invalid week")
		return
	}

	total, err := h.work.WeeklyTotal(c.Query("mid"), week)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"mid": c.Query("mid"), "week": week, "total": total})
}
