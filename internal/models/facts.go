package models

import (
	"time"
)

// EquipmentUsage records a member using a piece of equipment over an
// interval. The usage is active while EndDate is NULL or in the future.
type EquipmentUsage struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	EID       string     `gorm:"size:10;not null;uniqueIndex:idx_usage_natural" json:"eid"`
	MID       string     `gorm:"size:10;not null;uniqueIndex:idx_usage_natural" json:"mid"`
	StartDate time.Time  `gorm:"not null;uniqueIndex:idx_usage_natural" json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Purpose   string     `gorm:"size:255" json:"purpose"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Active reports whether the usage is open as of now.
func (u *EquipmentUsage) Active(now time.Time) bool {
	return u.EndDate == nil || u.EndDate.After(now)
}

// ProjectFunding links a grant to a project it funds.
type ProjectFunding struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GID       string    `gorm:"size:10;not null;uniqueIndex:idx_funding_natural" json:"gid"`
	PID       string    `gorm:"size:10;not null;uniqueIndex:idx_funding_natural" json:"pid"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkAssignment records hours a member worked on a project in a given
// week. At most one row per (project, member, week); the sum of hours
// across all projects for one (member, week) must never exceed
// MaxWeeklyHours.
type WorkAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PID       string    `gorm:"size:10;not null;uniqueIndex:idx_work_natural" json:"pid"`
	MID       string    `gorm:"size:10;not null;uniqueIndex:idx_work_natural;index:idx_work_member_week" json:"mid"`
	Week      int       `gorm:"not null;uniqueIndex:idx_work_natural;index:idx_work_member_week" json:"week"`
	Role      string    `gorm:"size:100;not null" json:"role"`
	Hours     int       `gorm:"not null" json:"hours"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxWeeklyHours caps the total hours a member may work across all
// projects in a single week.
const MaxWeeklyHours = 40

// Authorship links a publication to one of its member authors.
type Authorship struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PublicationID string    `gorm:"size:10;not null;uniqueIndex:idx_authorship_natural" json:"publication_id"`
	MID           string    `gorm:"size:10;not null;uniqueIndex:idx_authorship_natural" json:"mid"`
	CreatedAt     time.Time `json:"created_at"`
}

func (EquipmentUsage) TableName() string { return "equipment_usages" }
func (ProjectFunding) TableName() string { return "project_fundings" }
func (WorkAssignment) TableName() string { return "work_assignments" }
func (Authorship) TableName() string     { return "authorships" }
