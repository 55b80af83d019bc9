package services

import (
	"errors"
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

type EquipmentService struct {
	db *gorm.DB
}

func NewEquipmentService(db *gorm.DB) *EquipmentService {
	return &EquipmentService{db: db}
}

type CreateEquipmentRequest struct {
	EID          string `json:"eid" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	PurchaseDate string `json:"purchase_date"` // YYYY-MM-DD
}

func (s *EquipmentService) Create(req *CreateEquipmentRequest) (*models.Equipment, error) {
	if req.Status == "" {
		req.Status = models.EquipmentAvailable
	}
	if !models.ValidEquipmentStatus(req.Status) {
		return nil, errors.New("invalid equipment status")
	}

	var purchased *time.Time
	if req.PurchaseDate != "" {
		t, err := time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if t.After(time.Now()) {
			return nil, ErrInvalidDate
		}
		purchased = &t
	}

	equipment := models.Equipment{
		EID:          req.EID,
		Name:         req.Name,
		Type:         req.Type,
		Status:       req.Status,
		PurchaseDate: purchased,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Equipment{}).Where("eid = ?", req.EID).Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}
		return tx.Create(&equipment).Error
	})
	if err != nil {
		return nil, err
	}

	return &equipment, nil
}

func (s *EquipmentService) Get(eid string) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := s.db.Where("eid = ?", eid).First(&equipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownEquipment
		}
		return nil, err
	}
	return &equipment, nil
}

func (s *EquipmentService) List() ([]models.Equipment, error) {
	var items []models.Equipment
	if err := s.db.Order("eid ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus moves equipment to a new lifecycle status.
func (s *EquipmentService) UpdateStatus(eid, status string) (*models.Equipment, error) {
	if !models.ValidEquipmentStatus(status) {
		return nil, errors.New("invalid equipment status")
	}

	equipment, err := s.Get(eid)
	if err != nil {
		return nil, err
	}

	equipment.Status = status
	if err := s.db.Save(equipment).Error; err != nil {
		return nil, err
	}
	return equipment, nil
}

// Delete removes equipment and its usage history.
func (s *EquipmentService) Delete(eid string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var equipment models.Equipment
		if err := tx.Where("eid = ?", eid).First(&equipment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownEquipment
			}
			return err
		}

		if err := tx.Where("eid = ?", eid).Delete(&models.EquipmentUsage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&equipment).Error
	})
}

// StartUsage opens a usage row for (equipment, member) starting today.
// A member cannot hold two open usage rows for the same equipment.
func (s *EquipmentService) StartUsage(eid, mid, purpose string) (*models.EquipmentUsage, error) {
	now := time.Now()
	usage := models.EquipmentUsage{
		EID:       eid,
		MID:       mid,
		StartDate: now,
		Purpose:   purpose,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Equipment{}).Where("eid = ?", eid).Count(&count)
		if count == 0 {
			return ErrUnknownEquipment
		}
		tx.Model(&models.Member{}).Where("mid = ?", mid).Count(&count)
		if count == 0 {
			return ErrUnknownMember
		}

		tx.Model(&models.EquipmentUsage{}).
			Where("eid = ? AND mid = ? AND (end_date IS NULL OR end_date > ?)", eid, mid, now).
			Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}

		if err := tx.Create(&usage).Error; err != nil {
			return err
		}

		// Opening a usage row marks the equipment in use.
		return tx.Model(&models.Equipment{}).
			Where("eid = ?", eid).
			Update("status", models.EquipmentInUse).Error
	})
	if err != nil {
		return nil, err
	}

	return &usage, nil
}

// EndUsage closes the open usage row for (equipment, member). The
// returned bool reports whether an open row was found.
func (s *EquipmentService) EndUsage(eid, mid string) (bool, error) {
	now := time.Now()
	found := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var usage models.EquipmentUsage
		err := tx.Where("eid = ? AND mid = ? AND (end_date IS NULL OR end_date > ?)", eid, mid, now).
			Order("start_date DESC").
			First(&usage).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		usage.EndDate = &now
		if err := tx.Save(&usage).Error; err != nil {
			return err
		}

		// Release the equipment if no other open usage remains.
		var open int64
		tx.Model(&models.EquipmentUsage{}).
			Where("eid = ? AND (end_date IS NULL OR end_date > ?)", eid, now).
			Count(&open)
		if open == 0 {
			return tx.Model(&models.Equipment{}).
				Where("eid = ? AND status = ?", eid, models.EquipmentInUse).
				Update("status", models.EquipmentAvailable).Error
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}
