package services

import (
	"errors"
	"time"

	"github.com/openlabtools/labregistry/internal/config"
	"github.com/openlabtools/labregistry/internal/models"
	"github.com/openlabtools/labregistry/internal/utils"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    Token       `json:"token"`
	User     models.User `json:"user"`
}

type Token struct {
	AccessToken string    `json:"access_token"`
	ExpireAt    time.Time `json:"expire_at"`
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid username or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, errors.New("user is disabled")
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, errors.New("invalid username or password")
	}

	expireHours := s.cfg.JWT.ExpireHour
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, expireHours)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Model(&user).Update("last_login", now)

	return &LoginResponse{
		Token: Token{
			AccessToken: token,
			ExpireAt:    now.Add(time.Duration(expireHours) * time.Hour),
		},
		User: user,
	}, nil
}

// GetUserByID looks up a user account by its primary key.
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword updates the password after verifying the old one.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	if !utils.CheckPassword(oldPassword, user.Password) {
		return errors.New("old password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Update("password", hash).Error
}

// CreateAdminIfNotExists seeds the bootstrap admin account from config.
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: s.cfg.Admin.Username,
		Password: hash,
		Role:     "admin",
		IsActive: true,
	}
	return s.db.Create(&admin).Error
}
