package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{projects: services.NewProjectService(db)}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.Create(&req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projects.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Param("pid"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, project)
}

type UpdateProjectTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *ProjectHandler) UpdateTitle(c *gin.Context) {
	var req UpdateProjectTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.UpdateTitle(c.Param("pid"), req.Title)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, project)
}

type UpdateProjectLeadRequest struct {
	FacultyMID string `json:"faculty_mid" binding:"required"`
}

func (h *ProjectHandler) UpdateLead(c *gin.Context) {
	var req UpdateProjectLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.UpdateLead(c.Param("pid"), req.FacultyMID)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Param("pid")); err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "project deleted"})
}
