package services

import (
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

// ReportingService computes read-only aggregations over the store. It
// takes no locks and never mutates state, so reports may run alongside
// writers; a report sees some committed state, never a partial cascade.
type ReportingService struct {
	db *gorm.DB
}

func NewReportingService(db *gorm.DB) *ReportingService {
	return &ReportingService{db: db}
}

type PublisherCount struct {
	MID          string `json:"mid"`
	Name         string `json:"name"`
	Publications int64  `json:"publications"`
}

// TopPublishers returns the member(s) with the highest publication
// count, ties included.
func (s *ReportingService) TopPublishers() ([]PublisherCount, error) {
	var rows []PublisherCount
	err := s.db.Model(&models.Member{}).
		Select("members.mid, members.name, COUNT(authorships.id) AS publications").
		Joins("LEFT JOIN authorships ON authorships.mid = members.mid").
		Group("members.mid, members.name").
		Order("publications DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	max := rows[0].Publications
	var top []PublisherCount
	for _, r := range rows {
		if r.Publications == max {
			top = append(top, r)
		}
	}
	return top, nil
}

type MajorAverage struct {
	Major        string  `json:"major"`
	Students     int64   `json:"students"`
	Publications int64   `json:"publications"`
	Average      float64 `json:"average"`
}

// AvgPublicationsByMajor returns average publications per student,
// grouped by major.
func (s *ReportingService) AvgPublicationsByMajor() ([]MajorAverage, error) {
	var rows []MajorAverage
	err := s.db.Model(&models.Student{}).
		Select(`students.major,
			COUNT(DISTINCT students.mid) AS students,
			COUNT(authorships.id) AS publications`).
		Joins("LEFT JOIN authorships ON authorships.mid = students.mid").
		Group("students.major").
		Order("students.major ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].Students > 0 {
			rows[i].Average = float64(rows[i].Publications) / float64(rows[i].Students)
		}
	}
	return rows, nil
}

// TopNForGrant returns the top n members by publication count among
// those working on projects funded by the grant.
func (s *ReportingService) TopNForGrant(gid string, n int) ([]PublisherCount, error) {
	if n <= 0 {
		n = 3
	}

	var count int64
	s.db.Model(&models.Grant{}).Where("gid = ?", gid).Count(&count)
	if count == 0 {
		return nil, ErrUnknownGrant
	}

	var rows []PublisherCount
	err := s.db.Model(&models.WorkAssignment{}).
		Select(`work_assignments.mid,
			MAX(members.name) AS name,
			COUNT(DISTINCT authorships.id) AS publications`).
		Joins("JOIN project_fundings ON project_fundings.pid = work_assignments.pid").
		Joins("JOIN members ON members.mid = work_assignments.mid").
		Joins("LEFT JOIN authorships ON authorships.mid = work_assignments.mid").
		Where("project_fundings.gid = ?", gid).
		Group("work_assignments.mid").
		Order("publications DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MembersForGrant returns every member working on a project the grant funds.
func (s *ReportingService) MembersForGrant(gid string) ([]models.Member, error) {
	var count int64
	s.db.Model(&models.Grant{}).Where("gid = ?", gid).Count(&count)
	if count == 0 {
		return nil, ErrUnknownGrant
	}

	var members []models.Member
	err := s.db.Model(&models.Member{}).
		Distinct("members.*").
		Joins("JOIN work_assignments ON work_assignments.mid = members.mid").
		Joins("JOIN project_fundings ON project_fundings.pid = work_assignments.pid").
		Where("project_fundings.gid = ?", gid).
		Order("members.mid ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

type MentorshipPair struct {
	MentorMID  string `json:"mentor_mid"`
	MentorName string `json:"mentor_name"`
	MenteeMID  string `json:"mentee_mid"`
	MenteeName string `json:"mentee_name"`
}

// MentorshipByProject returns mentor/mentee pairs where both are
// assigned to the given project.
func (s *ReportingService) MentorshipByProject(pid string) ([]MentorshipPair, error) {
	var count int64
	s.db.Model(&models.Project{}).Where("pid = ?", pid).Count(&count)
	if count == 0 {
		return nil, ErrUnknownProject
	}

	var pairs []MentorshipPair
	err := s.db.Model(&models.Member{}).
		Select(`mentors.mid AS mentor_mid,
			mentors.name AS mentor_name,
			members.mid AS mentee_mid,
			members.name AS mentee_name`).
		Joins("JOIN members AS mentors ON mentors.mid = members.mentor_mid").
		Joins("JOIN work_assignments AS mentee_work ON mentee_work.mid = members.mid AND mentee_work.pid = ?", pid).
		Joins("JOIN work_assignments AS mentor_work ON mentor_work.mid = mentors.mid AND mentor_work.pid = ?", pid).
		Order("mentors.mid ASC, members.mid ASC").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

type ActiveUser struct {
	MID       string    `json:"mid"`
	Name      string    `json:"name"`
	Purpose   string    `json:"purpose"`
	StartDate time.Time `json:"start_date"`
}

// ActiveUsers returns members currently holding the equipment (open
// usage rows).
func (s *ReportingService) ActiveUsers(eid string) ([]ActiveUser, error) {
	var count int64
	s.db.Model(&models.Equipment{}).Where("eid = ?", eid).Count(&count)
	if count == 0 {
		return nil, ErrUnknownEquipment
	}

	var users []ActiveUser
	err := s.db.Model(&models.EquipmentUsage{}).
		Select(`equipment_usages.mid,
			members.name,
			equipment_usages.purpose,
			equipment_usages.start_date`).
		Joins("JOIN members ON members.mid = equipment_usages.mid").
		Where("equipment_usages.eid = ?", eid).
		Where("equipment_usages.end_date IS NULL OR equipment_usages.end_date > ?", time.Now()).
		Order("equipment_usages.start_date ASC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
