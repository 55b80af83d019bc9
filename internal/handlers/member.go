package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

// MemberHandler provides CRUD endpoints for lab members and their
// subtype rows.
type MemberHandler struct {
	members *services.MemberService
	work    *services.WorkService
}

func NewMemberHandler(db *gorm.DB, work *services.WorkService) *MemberHandler {
	return &MemberHandler{
		members: services.NewMemberService(db),
		work:    work,
	}
}

// Create registers a member together with its subtype payload.
func (h *MemberHandler) Create(c *gin.Context) {
	var req services.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.members.Create(&req)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Created(c, member)
}

// CreateSubtype attaches a subtype row to an existing member.
func (h *MemberHandler) CreateSubtype(c *gin.Context) {
	mid := c.Param("mid")

	var req services.CreateSubtypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.members.CreateSubtype(mid, &req); err != nil {
		handleDomainError(c, err)
		return
	}

	response.Created(c, gin.H{"mid": mid, "tag": req.Tag})
}

func (h *MemberHandler) List(c *gin.Context) {
	var req services.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.members.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

func (h *MemberHandler) Get(c *gin.Context) {
	detail, err := h.members.Get(c.Param("mid"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, detail)
}

type UpdateMemberNameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *MemberHandler) UpdateName(c *gin.Context) {
	var req UpdateMemberNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.members.UpdateName(c.Param("mid"), req.Name)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, member)
}

type UpdateMemberMentorRequest struct {
	MentorMID *string `json:"mentor_mid"`
}

func (h *MemberHandler) UpdateMentor(c *gin.Context) {
	var req UpdateMemberMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.members.UpdateMentor(c.Param("mid"), req.MentorMID)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, member)
}

// UpdateKind always rejects: a member's kind is immutable.
func (h *MemberHandler) UpdateKind(c *gin.Context) {
	handleDomainError(c, h.members.UpdateKind(c.Param("mid"), ""))
}

func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.members.Delete(c.Param("mid")); err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "member deleted"})
}

// ListWork returns a member's work assignments, optionally for one week.
func (h *MemberHandler) ListWork(c *gin.Context) {
	var week *int
	if w := c.Query("week"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			response.BadRequest(c, "invalid week")
			return
		}
		week = &n
	}

	assignments, err := h.work.ListByMember(c.Param("mid"), week)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Success(c, assignments)
}
