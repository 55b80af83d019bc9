package models

import (
	"time"
)

// Member kinds. A member is exactly one of these, fixed at creation.
const (
	KindStudent      = "Student"
	KindFaculty      = "Faculty"
	KindCollaborator = "Collaborator"
)

// ValidKind reports whether kind is one of the three member kinds.
func ValidKind(kind string) bool {
	return kind == KindStudent || kind == KindFaculty || kind == KindCollaborator
}

// Member is the base lab-person entity. Exactly one subtype row
// (Student, Faculty or Collaborator) exists per member, discriminated
// by Kind. MID and Kind are immutable after creation.
type Member struct {
	MID       string    `gorm:"primaryKey;size:10" json:"mid"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Kind      string    `gorm:"size:20;not null" json:"kind"`
	JoinDate  time.Time `gorm:"not null" json:"join_date"`
	MentorMID *string   `gorm:"size:10;index" json:"mentor_mid"`
	Mentor    *Member   `gorm:"foreignKey:MentorMID;references:MID" json:"mentor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Student is the specialization row for members of kind Student.
type Student struct {
	MID   string `gorm:"primaryKey;size:10" json:"mid"`
	SID   string `gorm:"size:10;not null" json:"sid"`
	Level string `gorm:"size:20;not null" json:"level"` // GRADUATE, UNDERGRADUATE
	Major string `gorm:"size:20;not null" json:"major"`
}

// Faculty is the specialization row for members of kind Faculty.
type Faculty struct {
	MID        string `gorm:"primaryKey;size:10" json:"mid"`
	Department string `gorm:"size:20;not null;default:BIOLOGY" json:"department"`
}

// Collaborator is the specialization row for members of kind Collaborator.
type Collaborator struct {
	MID         string `gorm:"primaryKey;size:10" json:"mid"`
	Biography   string `gorm:"size:500" json:"biography"`
	Affiliation string `gorm:"size:50" json:"affiliation"`
}

// Project is led by a faculty member. Deleting the lead is blocked while
// the project exists.
type Project struct {
	PID         string     `gorm:"primaryKey;size:10" json:"pid"`
	Title       string     `gorm:"size:100;not null;uniqueIndex" json:"title"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ExpDuration *int       `json:"exp_duration"` // expected duration in months
	FacultyMID  string     `gorm:"size:10;not null;index" json:"faculty_mid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Grant is an independent funding source; never cascade-deleted from members.
type Grant struct {
	GID       string     `gorm:"primaryKey;size:10" json:"gid"`
	Source    string     `gorm:"size:100;not null" json:"source"`
	Budget    float64    `json:"budget"`
	StartDate *time.Time `json:"start_date"`
	Duration  *int       `json:"duration"` // months
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Equipment statuses.
const (
	EquipmentAvailable   = "Available"
	EquipmentInUse       = "In Use"
	EquipmentMaintenance = "Under Maintenance"
	EquipmentRetired     = "Retired"
)

// ValidEquipmentStatus reports whether status is an allowed equipment status.
func ValidEquipmentStatus(status string) bool {
	switch status {
	case EquipmentAvailable, EquipmentInUse, EquipmentMaintenance, EquipmentRetired:
		return true
	}
	return false
}

type Equipment struct {
	EID          string     `gorm:"primaryKey;size:10" json:"eid"`
	Name         string     `gorm:"size:50;not null" json:"name"`
	Type         string     `gorm:"size:100" json:"type"`
	Status       string     `gorm:"size:100" json:"status"`
	PurchaseDate *time.Time `json:"purchase_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Publication struct {
	PublicationID   string     `gorm:"primaryKey;size:10" json:"publication_id"`
	Venue           string     `gorm:"size:100;not null" json:"venue"`
	Title           string     `gorm:"size:100;not null" json:"title"`
	PublicationDate *time.Time `json:"publication_date"`
	DOI             string     `gorm:"size:255" json:"doi"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName overrides
func (Member) TableName() string       { return "members" }
func (Student) TableName() string      { return "students" }
func (Faculty) TableName() string      { return "faculties" }
func (Collaborator) TableName() string { return "collaborators" }
func (Project) TableName() string      { return "projects" }
func (Grant) TableName() string        { return "grants" }
func (Equipment) TableName() string    { return "equipment" }
func (Publication) TableName() string  { return "publications" }
