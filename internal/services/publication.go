package services

import (
	"errors"
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

type PublicationService struct {
	db *gorm.DB
}

func NewPublicationService(db *gorm.DB) *PublicationService {
	return &PublicationService{db: db}
}

type CreatePublicationRequest struct {
	PublicationID   string `json:"publication_id" binding:"required"`
	Venue           string `json:"venue" binding:"required"`
	Title           string `json:"title" binding:"required"`
	PublicationDate string `json:"publication_date"` // YYYY-MM-DD
	DOI             string `json:"doi"`
}

func (s *PublicationService) Create(req *CreatePublicationRequest) (*models.Publication, error) {
	var published *time.Time
	if req.PublicationDate != "" {
		t, err := time.Parse("2006-01-02", req.PublicationDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		published = &t
	}

	publication := models.Publication{
		PublicationID:   req.PublicationID,
		Venue:           req.Venue,
		Title:           req.Title,
		PublicationDate: published,
		DOI:             req.DOI,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Publication{}).Where("publication_id = ?", req.PublicationID).Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}
		return tx.Create(&publication).Error
	})
	if err != nil {
		return nil, err
	}

	return &publication, nil
}

func (s *PublicationService) Get(id string) (*models.Publication, error) {
	var publication models.Publication
	if err := s.db.Where("publication_id = ?", id).First(&publication).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownPublication
		}
		return nil, err
	}
	return &publication, nil
}

func (s *PublicationService) List() ([]models.Publication, error) {
	var items []models.Publication
	if err := s.db.Order("publication_date DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a publication and its authorship links.
func (s *PublicationService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var publication models.Publication
		if err := tx.Where("publication_id = ?", id).First(&publication).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownPublication
			}
			return err
		}

		if err := tx.Where("publication_id = ?", id).Delete(&models.Authorship{}).Error; err != nil {
			return err
		}
		return tx.Delete(&publication).Error
	})
}

// AddAuthor links a member as an author of the publication.
func (s *PublicationService) AddAuthor(id, mid string) (*models.Authorship, error) {
	authorship := models.Authorship{PublicationID: id, MID: mid}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Publication{}).Where("publication_id = ?", id).Count(&count)
		if count == 0 {
			return ErrUnknownPublication
		}
		tx.Model(&models.Member{}).Where("mid = ?", mid).Count(&count)
		if count == 0 {
			return ErrUnknownMember
		}

		tx.Model(&models.Authorship{}).Where("publication_id = ? AND mid = ?", id, mid).Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}

		return tx.Create(&authorship).Error
	})
	if err != nil {
		return nil, err
	}

	return &authorship, nil
}
