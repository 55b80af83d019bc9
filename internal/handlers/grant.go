package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

type GrantHandler struct {
	grants  *services.GrantService
	reports *services.ReportingService
}

func NewGrantHandler(db *gorm.DB) *GrantHandler {
	return &GrantHandler{
		grants:  services.NewGrantService(db),
		reports: services.NewReportingService(db),
	}
}

func (h *GrantHandler) Create(c *gin.Context) {
	var req services.CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	grant, err := h.grants.Create(&req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, grant)
}

func (h *GrantHandler) List(c *gin.Context) {
	grants, err := h.grants.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, grants)
}

func (h *GrantHandler) Get(c *gin.Context) {
	grant, err := h.grants.Get(c.Param("gid"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, grant)
}

func (h *GrantHandler) Delete(c *gin.Context) {
	if err := h.grants.Delete(c.Param("gid")); err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "grant deleted"})
}

type FundProjectRequest struct {
	PID string `json:"pid" binding:"required"`
}

func (h *GrantHandler) FundProject(c *gin.Context) {
	var req FundProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	funding, err := h.grants.FundProject(c.Param("gid"), req.PID)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, funding)
}

// Members lists every member who works on a project funded by the grant.
func (h *GrantHandler) Members(c *gin.Context) {
	members, err := h.reports.MembersForGrant(c.Param("gid"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, members)
}
