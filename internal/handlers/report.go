package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

type ReportHandler struct {
	reports *services.ReportingService
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{reports: services.NewReportingService(db)}
}

// TopPublishers returns the members with the highest publication count,
// including ties for the top spot.
func (h *ReportHandler) TopPublishers(c *gin.Context) {
	rows, err := h.reports.TopPublishers()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, rows)
}

func (h *ReportHandler) AvgPublicationsByMajor(c *gin.Context) {
	rows, err := h.reports.AvgPublicationsByMajor()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, rows)
}

func (h *ReportHandler) TopForGrant(c *gin.Context) {
	n := 3
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "n must be a positive integer")
			return
		}
		n = parsed
	}

	rows, err := h.reports.TopNForGrant(c.Param("gid"), n)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, rows)
}

func (h *ReportHandler) MentorshipByProject(c *gin.Context) {
	rows, err := h.reports.MentorshipByProject(c.Param("pid"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, rows)
}
