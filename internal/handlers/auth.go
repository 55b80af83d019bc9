package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/config"
	"github.com/openlabtools/labregistry/internal/middleware"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: services.NewAuthService(db, cfg)}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Login(&req)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.auth.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.Success(c, user)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword updates the current user's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.ChangePassword(middleware.GetUserID(c), req.OldPassword, req.NewPassword); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "password changed"})
}

// Logout handles user logout (client-side token removal)
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "logged out successfully"})
}

// CreateAdminIfNotExists creates the default admin user.
func (h *AuthHandler) CreateAdminIfNotExists() error {
	return h.auth.CreateAdminIfNotExists()
}
