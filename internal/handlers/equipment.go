package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

type EquipmentHandler struct {
	equipment *services.EquipmentService
	reports   *services.ReportingService
}

func NewEquipmentHandler(db *gorm.DB) *EquipmentHandler {
	return &EquipmentHandler{
		equipment: services.NewEquipmentService(db),
		reports:   services.NewReportingService(db),
	}
}

func (h *EquipmentHandler) Create(c *gin.Context) {
	var req services.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	equipment, err := h.equipment.Create(&req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, equipment)
}

func (h *EquipmentHandler) List(c *gin.Context) {
	items, err := h.equipment.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, items)
}

func (h *EquipmentHandler) Get(c *gin.Context) {
	equipment, err := h.equipment.Get(c.Param("eid"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, equipment)
}

type UpdateEquipmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *EquipmentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateEquipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	equipment, err := h.equipment.UpdateStatus(c.Param("eid"), req.Status)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, equipment)
}

func (h *EquipmentHandler) Delete(c *gin.Context) {
	if err := h.equipment.Delete(c.Param("eid")); err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "equipment deleted"})
}

type StartUsageRequest struct {
	MID     string `json:"mid" binding:"required"`
	Purpose string `json:"purpose"`
}

func (h *EquipmentHandler) StartUsage(c *gin.Context) {
	var req StartUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	usage, err := h.equipment.StartUsage(c.Param("eid"), req.MID, req.Purpose)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, usage)
}

type EndUsageRequest struct {
	MID string `json:"mid" binding:"required"`
}

func (h *EquipmentHandler) EndUsage(c *gin.Context) {
	var req EndUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	found, err := h.equipment.EndUsage(c.Param("eid"), req.MID)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"found": found})
}

// ActiveUsers returns the members currently holding the equipment.
func (h *EquipmentHandler) ActiveUsers(c *gin.Context) {
	users, err := h.reports.ActiveUsers(c.Param("eid"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, users)
}
