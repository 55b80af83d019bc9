package services

import (
	"errors"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

// The invariant checks below are the write-path equivalents of the
// database triggers in the original schema. Each one runs inside the
// same transaction as the write it guards, so a write is never visible
// without its rule having passed against the state it commits into.

// checkMentor validates a member's mentor reference. The mentor must
// exist and be of kind Faculty, and a member can never mentor itself.
// Rule order matters: the faculty lookup runs first, then the self check.
func checkMentor(tx *gorm.DB, mid string, mentorMID *string) error {
	if mentorMID == nil || *mentorMID == "" {
		return nil
	}

	var mentor models.Member
	if err := tx.Where("mid = ?", *mentorMID).First(&mentor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMentorNotFaculty
		}
		return err
	}
	if mentor.Kind != models.KindFaculty {
		return ErrMentorNotFaculty
	}

	if *mentorMID == mid {
		return ErrSelfMentor
	}

	return nil
}

// checkSubtypeTag verifies that the owning member exists and that its
// kind equals the subtype tag about to be written.
func checkSubtypeTag(tx *gorm.DB, mid, tag string) error {
	var member models.Member
	if err := tx.Where("mid = ?", mid).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownMember
		}
		return err
	}
	if member.Kind != tag {
		return ErrSubtypeTypeMismatch
	}
	return nil
}

// checkProjectLead verifies that the project lead references an
// existing member of kind Faculty.
func checkProjectLead(tx *gorm.DB, facultyMID string) error {
	var lead models.Member
	if err := tx.Where("mid = ?", facultyMID).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeadNotFaculty
		}
		return err
	}
	if lead.Kind != models.KindFaculty {
		return ErrLeadNotFaculty
	}
	return nil
}

// checkWeeklyHours enforces the 40-hour weekly aggregate cap. It sums
// the hours of every other work assignment for the same (member, week),
// excluding the row identified by pid since that row is about to be
// written, and rejects the write if the new total would exceed the cap.
//
// The aggregate spans rows not identified by the write's own key, so
// this must run inside the writer's transaction while the caller holds
// the per-(member, week) lock; see WorkService.RecordWork.
func checkWeeklyHours(tx *gorm.DB, pid, mid string, week, hours int) error {
	var siblingTotal int64
	err := tx.Model(&models.WorkAssignment{}).
		Where("mid = ? AND week = ? AND pid <> ?", mid, week, pid).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&siblingTotal).Error
	if err != nil {
		return err
	}

	total := int(siblingTotal) + hours
	if total > models.MaxWeeklyHours {
		return &HourCapError{MID: mid, Week: week, Total: total}
	}
	return nil
}
