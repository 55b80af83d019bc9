package services

import (
	"errors"
	"testing"

	"github.com/openlabtools/labregistry/internal/models"
)

func TestEquipmentService_UsageLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentService(db)
	reports := NewReportingService(db)
	seedStudent(t, db, "M001", "Alice", "Genetics")

	if _, err := svc.Create(&CreateEquipmentRequest{
		EID: "E001", Name: "Sequencer", Type: "sequencing",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	usage, err := svc.StartUsage("E001", "M001", "library prep")
	if err != nil {
		t.Fatalf("StartUsage() error = %v", err)
	}
	if usage.EndDate != nil {
		t.Error("new usage should be open")
	}

	equipment, _ := svc.Get("E001")
	if equipment.Status != models.EquipmentInUse {
		t.Errorf("Status = %q, expected %q", equipment.Status, models.EquipmentInUse)
	}

	// A second open usage for the same pair is rejected.
	if _, err := svc.StartUsage("E001", "M001", "again"); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("StartUsage() error = %v, expected ErrDuplicateIdentifier", err)
	}

	users, err := reports.ActiveUsers("E001")
	if err != nil {
		t.Fatalf("ActiveUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].MID != "M001" {
		t.Fatalf("ActiveUsers = %+v, expected M001", users)
	}

	found, err := svc.EndUsage("E001", "M001")
	if err != nil {
		t.Fatalf("EndUsage() error = %v", err)
	}
	if !found {
		t.Fatal("EndUsage() should find the open row")
	}

	equipment, _ = svc.Get("E001")
	if equipment.Status != models.EquipmentAvailable {
		t.Errorf("Status = %q, expected %q after release", equipment.Status, models.EquipmentAvailable)
	}

	users, _ = reports.ActiveUsers("E001")
	if len(users) != 0 {
		t.Errorf("ActiveUsers = %+v, expected none", users)
	}

	// Ending again reports nothing to close.
	found, err = svc.EndUsage("E001", "M001")
	if err != nil {
		t.Fatalf("EndUsage() error = %v", err)
	}
	if found {
		t.Error("EndUsage() found = true, expected false")
	}
}

func TestEquipmentService_StartUsage_UnknownReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentService(db)
	seedStudent(t, db, "M001", "Alice", "Genetics")

	if _, err := svc.StartUsage("NOPE", "M001", ""); !errors.Is(err, ErrUnknownEquipment) {
		t.Errorf("StartUsage() error = %v, expected ErrUnknownEquipment", err)
	}

	db.Create(&models.Equipment{EID: "E001", Name: "Sequencer", Status: models.EquipmentAvailable})
	if _, err := svc.StartUsage("E001", "NOPE", ""); !errors.Is(err, ErrUnknownMember) {
		t.Errorf("StartUsage() error = %v, expected ErrUnknownMember", err)
	}
}

func TestEquipmentService_Create_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentService(db)

	if _, err := svc.Create(&CreateEquipmentRequest{
		EID: "E001", Name: "Sequencer", Status: "Broken",
	}); err == nil {
		t.Error("Create() should reject an unknown status")
	}

	if _, err := svc.Create(&CreateEquipmentRequest{
		EID: "E001", Name: "Sequencer", PurchaseDate: "2099-01-01",
	}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Create() error = %v, expected ErrInvalidDate", err)
	}

	equipment, err := svc.Create(&CreateEquipmentRequest{EID: "E001", Name: "Sequencer"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if equipment.Status != models.EquipmentAvailable {
		t.Errorf("Status = %q, expected default %q", equipment.Status, models.EquipmentAvailable)
	}
}

func TestEquipmentService_Delete_CascadesUsage(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentService(db)
	seedStudent(t, db, "M001", "Alice", "Genetics")
	db.Create(&models.Equipment{EID: "E001", Name: "Sequencer", Status: models.EquipmentAvailable})
	db.Create(&models.EquipmentUsage{EID: "E001", MID: "M001", StartDate: testJoinDate})

	if err := svc.Delete("E001"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n := countRows(t, db, &models.EquipmentUsage{}, "eid = ?", "E001"); n != 0 {
		t.Errorf("usage rows = %d, expected 0", n)
	}
}
