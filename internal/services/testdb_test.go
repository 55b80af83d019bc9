package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database for one test. Each test
// gets its own named shared-cache database so connections from the pool
// see the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// One connection keeps concurrent transactions from tripping
	// SQLite's shared-cache table locks.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	err = db.AutoMigrate(
		&models.Member{},
		&models.Student{},
		&models.Faculty{},
		&models.Collaborator{},
		&models.Project{},
		&models.Grant{},
		&models.Equipment{},
		&models.Publication{},
		&models.EquipmentUsage{},
		&models.ProjectFunding{},
		&models.WorkAssignment{},
		&models.Authorship{},
		&models.User{},
		&models.SystemLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

var testJoinDate = time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

// seedFaculty inserts a faculty member directly, bypassing the service.
func seedFaculty(t *testing.T, db *gorm.DB, mid, name string) {
	t.Helper()
	if err := db.Create(&models.Member{
		MID: mid, Name: name, Kind: models.KindFaculty, JoinDate: testJoinDate,
	}).Error; err != nil {
		t.Fatalf("seed faculty member %s: %v", mid, err)
	}
	if err := db.Create(&models.Faculty{MID: mid, Department: "BIOLOGY"}).Error; err != nil {
		t.Fatalf("seed faculty row %s: %v", mid, err)
	}
}

// seedStudent inserts a student member directly, bypassing the service.
func seedStudent(t *testing.T, db *gorm.DB, mid, name, major string) {
	t.Helper()
	if err := db.Create(&models.Member{
		MID: mid, Name: name, Kind: models.KindStudent, JoinDate: testJoinDate,
	}).Error; err != nil {
		t.Fatalf("seed student member %s: %v", mid, err)
	}
	if err := db.Create(&models.Student{MID: mid, SID: "S-" + mid, Level: "PhD", Major: major}).Error; err != nil {
		t.Fatalf("seed student row %s: %v", mid, err)
	}
}

// seedProject inserts a project led by the given faculty member.
func seedProject(t *testing.T, db *gorm.DB, pid, title, facultyMID string) {
	t.Helper()
	if err := db.Create(&models.Project{
		PID: pid, Title: title, FacultyMID: facultyMID,
	}).Error; err != nil {
		t.Fatalf("seed project %s: %v", pid, err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
