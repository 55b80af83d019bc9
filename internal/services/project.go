package services

import (
	"errors"
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	PID         string `json:"pid" binding:"required"`
	Title       string `json:"title" binding:"required"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`
	ExpDuration *int   `json:"exp_duration"`
	FacultyMID  string `json:"faculty_mid" binding:"required"`
}

// Create persists a project after checking the lead is faculty and the
// date range is ordered.
func (s *ProjectService) Create(req *CreateProjectRequest) (*models.Project, error) {
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		PID:         req.PID,
		Title:       req.Title,
		StartDate:   start,
		EndDate:     end,
		ExpDuration: req.ExpDuration,
		FacultyMID:  req.FacultyMID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Project{}).Where("pid = ? OR title = ?", req.PID, req.Title).Count(&count)
		if count > 0 {
			return ErrDuplicateIdentifier
		}

		if err := checkProjectLead(tx, req.FacultyMID); err != nil {
			return err
		}

		return tx.Create(&project).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

func parseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		start = &t
	}
	if endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, ErrInvalidDateRange
	}
	return start, end, nil
}

func (s *ProjectService) Get(pid string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("pid = ?", pid).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownProject
		}
		return nil, err
	}
	return &project, nil
}

type ProjectListRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Title      string `form:"title"`
	FacultyMID string `form:"faculty_mid"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

func (s *ProjectService) List(req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Project{})
	if req.Title != "" {
		query = query.Where("title LIKE ?", "%"+req.Title+"%")
	}
	if req.FacultyMID != "" {
		query = query.Where("faculty_mid = ?", req.FacultyMID)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("pid ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// UpdateTitle renames a project; the new title must stay unique.
func (s *ProjectService) UpdateTitle(pid, title string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("pid = ?", pid).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownProject
		}
		return nil, err
	}

	var count int64
	s.db.Model(&models.Project{}).Where("title = ? AND pid <> ?", title, pid).Count(&count)
	if count > 0 {
		return nil, ErrDuplicateIdentifier
	}

	project.Title = title
	if err := s.db.Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateLead reassigns the project to another faculty member. Used to
// unblock deletion of the previous lead.
func (s *ProjectService) UpdateLead(pid, facultyMID string) (*models.Project, error) {
	var project models.Project

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pid = ?", pid).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownProject
			}
			return err
		}

		if err := checkProjectLead(tx, facultyMID); err != nil {
			return err
		}

		project.FacultyMID = facultyMID
		return tx.Save(&project).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// Delete removes a project together with its funding links and work
// assignments. Grants themselves are untouched.
func (s *ProjectService) Delete(pid string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("pid = ?", pid).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownProject
			}
			return err
		}

		if err := tx.Where("pid = ?", pid).Delete(&models.ProjectFunding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pid = ?", pid).Delete(&models.WorkAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})
}
