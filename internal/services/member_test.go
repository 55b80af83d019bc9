package services

import (
	"errors"
	"testing"

	"github.com/openlabtools/labregistry/internal/models"
)

func TestMemberService_CreateStudent(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedFaculty(t, db, "F001", "Dr. Chen")

	mentor := "F001"
	member, err := svc.Create(&CreateMemberRequest{
		MID:       "M001",
		Name:      "Alice",
		Kind:      models.KindStudent,
		JoinDate:  "2024-01-15",
		MentorMID: &mentor,
		SID:       "S12345",
		Level:     "PhD",
		Major:     "Genetics",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if member.MentorMID == nil || *member.MentorMID != "F001" {
		t.Errorf("MentorMID = %v, expected F001", member.MentorMID)
	}

	detail, err := svc.Get("M001")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.Student == nil {
		t.Fatal("expected a student subtype row")
	}
	if detail.Student.Major != "Genetics" {
		t.Errorf("Major = %q, expected %q", detail.Student.Major, "Genetics")
	}
	if detail.Faculty != nil || detail.Collaborator != nil {
		t.Error("unexpected extra subtype rows")
	}
}

func TestMemberService_Create_FacultyDefaultDepartment(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	_, err := svc.Create(&CreateMemberRequest{
		MID:      "F010",
		Name:     "Dr. Novak",
		Kind:     models.KindFaculty,
		JoinDate: "2022-06-01",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	detail, _ := svc.Get("F010")
	if detail.Faculty == nil {
		t.Fatal("expected a faculty subtype row")
	}
	if detail.Faculty.Department != "BIOLOGY" {
		t.Errorf("Department = %q, expected BIOLOGY", detail.Faculty.Department)
	}
}

func TestMemberService_Create_DuplicateMID(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedStudent(t, db, "M001", "Alice", "Genetics")

	_, err := svc.Create(&CreateMemberRequest{
		MID:      "M001",
		Name:     "Someone Else",
		Kind:     models.KindStudent,
		JoinDate: "2024-01-15",
	})
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("Create() error = %v, expected ErrDuplicateIdentifier", err)
	}

	if n := countRows(t, db, &models.Student{}, "mid = ?", "M001"); n != 1 {
		t.Errorf("student rows = %d, expected 1", n)
	}
}

func TestMemberService_Create_MentorNotFaculty(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedStudent(t, db, "M001", "Alice", "Genetics")

	mentor := "M001"
	_, err := svc.Create(&CreateMemberRequest{
		MID:       "M002",
		Name:      "Bob",
		Kind:      models.KindStudent,
		JoinDate:  "2024-02-01",
		MentorMID: &mentor,
	})
	if !errors.Is(err, ErrMentorNotFaculty) {
		t.Fatalf("Create() error = %v, expected ErrMentorNotFaculty", err)
	}
}

func TestMemberService_Create_SelfMentorAtInsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	// The member does not exist yet, so the faculty lookup fails before
	// the self check is reached.
	mentor := "M003"
	_, err := svc.Create(&CreateMemberRequest{
		MID:       "M003",
		Name:      "Carol",
		Kind:      models.KindStudent,
		JoinDate:  "2024-02-01",
		MentorMID: &mentor,
	})
	if !errors.Is(err, ErrMentorNotFaculty) {
		t.Fatalf("Create() error = %v, expected ErrMentorNotFaculty", err)
	}
}

func TestMemberService_Create_FailureLeavesNoRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	mentor := "NOPE"
	_, err := svc.Create(&CreateMemberRequest{
		MID:       "M004",
		Name:      "Dave",
		Kind:      models.KindStudent,
		JoinDate:  "2024-02-01",
		MentorMID: &mentor,
	})
	if err == nil {
		t.Fatal("Create() should fail with an unknown mentor")
	}

	if n := countRows(t, db, &models.Member{}, "mid = ?", "M004"); n != 0 {
		t.Errorf("member rows = %d, expected 0", n)
	}
	if n := countRows(t, db, &models.Student{}, "mid = ?", "M004"); n != 0 {
		t.Errorf("student rows = %d, expected 0", n)
	}
}

func TestMemberService_Create_FutureJoinDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	_, err := svc.Create(&CreateMemberRequest{
		MID:      "M005",
		Name:     "Eve",
		Kind:     models.KindStudent,
		JoinDate: "2099-01-01",
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("Create() error = %v, expected ErrInvalidDate", err)
	}
}

func TestMemberService_CreateSubtype_TagMismatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	if err := db.Create(&models.Member{
		MID: "M006", Name: "Frank", Kind: models.KindStudent, JoinDate: testJoinDate,
	}).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}

	err := svc.CreateSubtype("M006", &CreateSubtypeRequest{Tag: models.KindFaculty})
	if !errors.Is(err, ErrSubtypeTypeMismatch) {
		t.Fatalf("CreateSubtype() error = %v, expected ErrSubtypeTypeMismatch", err)
	}
	if n := countRows(t, db, &models.Faculty{}, "mid = ?", "M006"); n != 0 {
		t.Errorf("faculty rows = %d, expected 0", n)
	}

	// The matching tag succeeds.
	if err := svc.CreateSubtype("M006", &CreateSubtypeRequest{
		Tag: models.KindStudent, SID: "S006", Level: "MSc", Major: "Botany",
	}); err != nil {
		t.Fatalf("CreateSubtype() error = %v", err)
	}

	// A second subtype row for the same member is rejected.
	err = svc.CreateSubtype("M006", &CreateSubtypeRequest{Tag: models.KindStudent})
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("CreateSubtype() error = %v, expected ErrDuplicateIdentifier", err)
	}
}

func TestMemberService_UpdateMentor(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedFaculty(t, db, "F001", "Dr. Chen")
	seedStudent(t, db, "M001", "Alice", "Genetics")

	mentor := "F001"
	member, err := svc.UpdateMentor("M001", &mentor)
	if err != nil {
		t.Fatalf("UpdateMentor() error = %v", err)
	}
	if member.MentorMID == nil || *member.MentorMID != "F001" {
		t.Errorf("MentorMID = %v, expected F001", member.MentorMID)
	}

	// Clearing the reference.
	member, err = svc.UpdateMentor("M001", nil)
	if err != nil {
		t.Fatalf("UpdateMentor(nil) error = %v", err)
	}
	if member.MentorMID != nil {
		t.Errorf("MentorMID = %v, expected nil", member.MentorMID)
	}
}

func TestMemberService_UpdateMentor_Self(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedFaculty(t, db, "F001", "Dr. Chen")

	// F001 is faculty, so the lookup passes and the self check fires.
	self := "F001"
	_, err := svc.UpdateMentor("F001", &self)
	if !errors.Is(err, ErrSelfMentor) {
		t.Fatalf("UpdateMentor() error = %v, expected ErrSelfMentor", err)
	}
}

func TestMemberService_UpdateKind_Immutable(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedStudent(t, db, "M001", "Alice", "Genetics")

	if err := svc.UpdateKind("M001", models.KindFaculty); !errors.Is(err, ErrImmutableField) {
		t.Fatalf("UpdateKind() error = %v, expected ErrImmutableField", err)
	}
}

func TestMemberService_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedFaculty(t, db, "F001", "Dr. Chen")
	seedStudent(t, db, "M001", "Alice", "Genetics")
	seedProject(t, db, "P001", "Coral Genomics", "F001")

	// Mentee pointing at the member being deleted.
	mentor := "M001"
	if err := db.Create(&models.Member{
		MID: "M002", Name: "Bob", Kind: models.KindStudent,
		JoinDate: testJoinDate, MentorMID: &mentor,
	}).Error; err != nil {
		t.Fatalf("seed mentee: %v", err)
	}

	// Fact rows owned by M001.
	db.Create(&models.WorkAssignment{PID: "P001", MID: "M001", Week: 10, Role: "analyst", Hours: 12})
	db.Create(&models.Equipment{EID: "E001", Name: "Sequencer", Status: models.EquipmentAvailable})
	db.Create(&models.EquipmentUsage{EID: "E001", MID: "M001", StartDate: testJoinDate})
	db.Create(&models.Publication{PublicationID: "PUB1", Venue: "Nature", Title: "On Corals"})
	db.Create(&models.Authorship{PublicationID: "PUB1", MID: "M001"})

	if err := svc.Delete("M001"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"member", &models.Member{}},
		{"student", &models.Student{}},
		{"work assignment", &models.WorkAssignment{}},
		{"equipment usage", &models.EquipmentUsage{}},
		{"authorship", &models.Authorship{}},
	} {
		if n := countRows(t, db, check.model, "mid = ?", "M001"); n != 0 {
			t.Errorf("%s rows = %d, expected 0", check.name, n)
		}
	}

	// The mentee survives with its mentor reference cleared.
	var mentee models.Member
	if err := db.Where("mid = ?", "M002").First(&mentee).Error; err != nil {
		t.Fatalf("mentee lookup: %v", err)
	}
	if mentee.MentorMID != nil {
		t.Errorf("mentee MentorMID = %v, expected nil", mentee.MentorMID)
	}

	// Unrelated rows are untouched.
	if n := countRows(t, db, &models.Publication{}, "publication_id = ?", "PUB1"); n != 1 {
		t.Errorf("publication rows = %d, expected 1", n)
	}
}

func TestMemberService_Delete_BlockedByLedProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedFaculty(t, db, "F001", "Dr. Chen")
	seedProject(t, db, "P001", "Coral Genomics", "F001")

	err := svc.Delete("F001")
	if !errors.Is(err, ErrReferentialBlock) {
		t.Fatalf("Delete() error = %v, expected ErrReferentialBlock", err)
	}
	if n := countRows(t, db, &models.Member{}, "mid = ?", "F001"); n != 1 {
		t.Errorf("member rows = %d, expected 1", n)
	}
}

func TestMemberService_Delete_Unknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)

	if err := svc.Delete("NOPE"); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("Delete() error = %v, expected ErrUnknownMember", err)
	}
}

func TestMemberService_List_Filters(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	seedFaculty(t, db, "F001", "Dr. Chen")
	seedStudent(t, db, "M001", "Alice", "Genetics")
	seedStudent(t, db, "M002", "Alina", "Botany")

	resp, err := svc.List(&MemberListRequest{Kind: models.KindStudent})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, expected 2", resp.Total)
	}

	resp, err = svc.List(&MemberListRequest{Name: "Ali"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, expected 2 name matches", resp.Total)
	}
}
