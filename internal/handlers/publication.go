package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

type PublicationHandler struct {
	publications *services.PublicationService
}

func NewPublicationHandler(db *gorm.DB) *PublicationHandler {
	return &PublicationHandler{publications: services.NewPublicationService(db)}
}

func (h *PublicationHandler) Create(c *gin.Context) {
	var req services.CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	publication, err := h.publications.Create(&req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, publication)
}

func (h *PublicationHandler) List(c *gin.Context) {
	publications, err := h.publications.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, publications)
}

func (h *PublicationHandler) Get(c *gin.Context) {
	publication, err := h.publications.Get(c.Param("id"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, publication)
}

func (h *PublicationHandler) Delete(c *gin.Context) {
	if err := h.publications.Delete(c.Param("id")); err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "publication deleted"})
}

type AddAuthorRequest struct {
	MID string `json:"mid" binding:"required"`
}

func (h *PublicationHandler) AddAuthor(c *gin.Context) {
	var req AddAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	authorship, err := h.publications.AddAuthor(c.Param("id"), req.MID)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, authorship)
}
