package services

import (
	"errors"
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

// MemberService owns the member/subtype registry: it creates members
// together with their subtype row, keeps kind immutable, and performs
// the cascade on delete.
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

type CreateMemberRequest struct {
	MID       string  `json:"mid" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Kind      string  `json:"kind" binding:"required,oneof=Student Faculty Collaborator"`
	JoinDate  string  `json:"join_date" binding:"required"` // YYYY-MM-DD
	MentorMID *string `json:"mentor_mid"`

	// Subtype payload; which fields apply depends on Kind.
	SID         string `json:"sid"`
	Level       string `json:"level"`
	Major       string `json:"major"`
	Department  string `json:"department"`
	Biography   string `json:"biography"`
	Affiliation string `json:"affiliation"`
}

type MemberDetail struct {
	models.Member
	Student      *models.Student      `json:"student,omitempty"`
	Faculty      *models.Faculty      `json:"faculty,omitempty"`
	Collaborator *models.Collaborator `json:"collaborator,omitempty"`
}

// Create persists a member and its subtype row atomically: both rows
// become visible together or not at all.
func (s *MemberService) Create(req *CreateMemberRequest) (*models.Member, error) {
	if !models.ValidKind(req.Kind) {
		return nil, ErrSubtypeTypeMismatch
	}

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if joinDate.After(time.Now()) {
		return nil, ErrInvalidDate
	}

	mentor := req.MentorMID
	if mentor != nil && *mentor == "" {
		mentor = nil
	}

	member := models.Member{
		MID:       req.MID,
		Name:      req.Name,
		Kind:      req.Kind,
		JoinDate:  joinDate,
		MentorMID: mentor,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Member{}).Where("mid = ?", req.MID).Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}

		if err := checkMentor(tx, req.MID, mentor); err != nil {
			return err
		}

		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		return createSubtypeRow(tx, req)
	})
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func createSubtypeRow(tx *gorm.DB, req *CreateMemberRequest) error {
	switch req.Kind {
	case models.KindStudent:
		return tx.Create(&models.Student{
			MID:   req.MID,
			SID:   req.SID,
			Level: req.Level,
			Major: req.Major,
		}).Error
	case models.KindFaculty:
		faculty := models.Faculty{MID: req.MID, Department: req.Department}
		if faculty.Department == "" {
			faculty.Department = "BIOLOGY"
		}
		return tx.Create(&faculty).Error
	case models.KindCollaborator:
		return tx.Create(&models.Collaborator{
			MID:         req.MID,
			Biography:   req.Biography,
			Affiliation: req.Affiliation,
		}).Error
	}
	return ErrSubtypeTypeMismatch
}

type CreateSubtypeRequest struct {
	Tag string `json:"tag" binding:"required,oneof=Student Faculty Collaborator"`

	SID         string `json:"sid"`
	Level       string `json:"level"`
	Major       string `json:"major"`
	Department  string `json:"department"`
	Biography   string `json:"biography"`
	Affiliation string `json:"affiliation"`
}

// CreateSubtype attaches a subtype row to an existing member that lacks
// one (e.g. after a partial import). The tag must equal the member's
// kind; a mismatch is rejected and leaves no row behind.
func (s *MemberService) CreateSubtype(mid string, req *CreateSubtypeRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkSubtypeTag(tx, mid, req.Tag); err != nil {
			return err
		}

		var count int64
		switch req.Tag {
		case models.KindStudent:
			tx.Model(&models.Student{}).Where("mid = ?", mid).Count(&count)
		case models.KindFaculty:
			tx.Model(&models.Faculty{}).Where("mid = ?", mid).Count(&count)
		case models.KindCollaborator:
			tx.Model(&models.Collaborator{}).Where("mid = ?", mid).Count(&count)
		}
		if count > 0 {
			return ErrDuplicateIdentifier
		}

		return createSubtypeRow(tx, &CreateMemberRequest{
			MID:         mid,
			Kind:        req.Tag,
			SID:         req.SID,
			Level:       req.Level,
			Major:       req.Major,
			Department:  req.Department,
			Biography:   req.Biography,
			Affiliation: req.Affiliation,
		})
	})
}

// Get returns a member with its subtype row.
func (s *MemberService) Get(mid string) (*MemberDetail, error) {
	var member models.Member
	if err := s.db.Where("mid = ?", mid).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownMember
		}
		return nil, err
	}

	detail := MemberDetail{Member: member}
	switch member.Kind {
	case models.KindStudent:
		var st models.Student
		if err := s.db.Where("mid = ?", mid).First(&st).Error; err == nil {
			detail.Student = &st
		}
	case models.KindFaculty:
		var f models.Faculty
		if err := s.db.Where("mid = ?", mid).First(&f).Error; err == nil {
			detail.Faculty = &f
		}
	case models.KindCollaborator:
		var co models.Collaborator
		if err := s.db.Where("mid = ?", mid).First(&co).Error; err == nil {
			detail.Collaborator = &co
		}
	}

	return &detail, nil
}

type MemberListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Kind     string `form:"kind"`
	Name     string `form:"name"`
}

type MemberListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Items    []models.Member `json:"items"`
}

func (s *MemberService) List(req *MemberListRequest) (*MemberListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Member{})
	if req.Kind != "" {
		query = query.Where("kind = ?", req.Kind)
	}
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}

	var total int64
	query.Count(&total)

	var members []models.Member
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("mid ASC").Find(&members).Error; err != nil {
		return nil, err
	}

	return &MemberListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    members,
	}, nil
}

// UpdateName changes a member's display name. Name is the only mutable
// member field; kind changes require delete and recreate.
func (s *MemberService) UpdateName(mid, name string) (*models.Member, error) {
	var member models.Member
	if err := s.db.Where("mid = ?", mid).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownMember
		}
		return nil, err
	}

	member.Name = name
	if err := s.db.Save(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMentor points a member at a new mentor, or clears the reference
// when mentorMID is nil. The mentor rules apply the same as at creation.
func (s *MemberService) UpdateMentor(mid string, mentorMID *string) (*models.Member, error) {
	if mentorMID != nil && *mentorMID == "" {
		mentorMID = nil
	}

	var member models.Member
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mid = ?", mid).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownMember
			}
			return err
		}

		if err := checkMentor(tx, mid, mentorMID); err != nil {
			return err
		}

		member.MentorMID = mentorMID
		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateKind always fails: kind is fixed at creation.
func (s *MemberService) UpdateKind(mid, kind string) error {
	return ErrImmutableField
}

// Delete removes a member and cascades to its subtype, equipment usage,
// work assignment and authorship rows in one transaction. Mentor
// references to the member are set to NULL. The delete is blocked while
// the member leads a project.
func (s *MemberService) Delete(mid string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.Where("mid = ?", mid).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownMember
			}
			return err
		}

		var leads int64
		tx.Model(&models.Project{}).Where("faculty_mid = ?", mid).Count(&leads)
		if leads > 0 {
			return ErrReferentialBlock
		}

		// Mentor references follow ON DELETE SET NULL semantics.
		if err := tx.Model(&models.Member{}).
			Where("mentor_mid = ?", mid).
			Update("mentor_mid", nil).Error; err != nil {
			return err
		}

		for _, owned := range []interface{}{
			&models.Student{},
			&models.Faculty{},
			&models.Collaborator{},
			&models.EquipmentUsage{},
			&models.WorkAssignment{},
			&models.Authorship{},
		} {
			if err := tx.Where("mid = ?", mid).Delete(owned).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&member).Error
	})
}
