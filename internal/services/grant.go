package services

import (
	"errors"
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

type GrantService struct {
	db *gorm.DB
}

func NewGrantService(db *gorm.DB) *GrantService {
	return &GrantService{db: db}
}

type CreateGrantRequest struct {
	GID       string  `json:"gid" binding:"required"`
	Source    string  `json:"source" binding:"required"`
	Budget    float64 `json:"budget" binding:"min=0"`
	StartDate string  `json:"start_date"` // YYYY-MM-DD
	Duration  *int    `json:"duration"`
}

func (s *GrantService) Create(req *CreateGrantRequest) (*models.Grant, error) {
	var start *time.Time
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if t.After(time.Now()) {
			return nil, ErrInvalidDate
		}
		start = &t
	}
	if req.Duration != nil && *req.Duration < 0 {
		return nil, errors.New("duration must not be negative")
	}

	grant := models.Grant{
		GID:       req.GID,
		Source:    req.Source,
		Budget:    req.Budget,
		StartDate: start,
		Duration:  req.Duration,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Grant{}).Where("gid = ?", req.GID).Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}
		return tx.Create(&grant).Error
	})
	if err != nil {
		return nil, err
	}

	return &grant, nil
}

func (s *GrantService) Get(gid string) (*models.Grant, error) {
	var grant models.Grant
	if err := s.db.Where("gid = ?", gid).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownGrant
		}
		return nil, err
	}
	return &grant, nil
}

func (s *GrantService) List() ([]models.Grant, error) {
	var grants []models.Grant
	if err := s.db.Order("gid ASC").Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// Delete removes a grant and its funding links. Projects stay.
func (s *GrantService) Delete(gid string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var grant models.Grant
		if err := tx.Where("gid = ?", gid).First(&grant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownGrant
			}
			return err
		}

		if err := tx.Where("gid = ?", gid).Delete(&models.ProjectFunding{}).Error; err != nil {
			return err
		}
		return tx.Delete(&grant).Error
	})
}

// FundProject links the grant to a project.
func (s *GrantService) FundProject(gid, pid string) (*models.ProjectFunding, error) {
	funding := models.ProjectFunding{GID: gid, PID: pid}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Grant{}).Where("gid = ?", gid).Count(&count)
		if count == 0 {
			return ErrUnknownGrant
		}
		tx.Model(&models.Project{}).Where("pid = ?", pid).Count(&count)
		if count == 0 {
			return ErrUnknownProject
		}

		tx.Model(&models.ProjectFunding{}).Where("gid = ? AND pid = ?", gid, pid).Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}

		return tx.Create(&funding).Error
	})
	if err != nil {
		return nil, err
	}

	return &funding, nil
}
