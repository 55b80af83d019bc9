package services

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the invariant checks. Handlers translate
// them to HTTP responses; callers match with errors.Is.
var (
	ErrDuplicateIdentifier = errors.New("identifier already exists")
	ErrUnknownMember       = errors.New("member does not exist")
	ErrUnknownProject      = errors.New("project does not exist")
	ErrUnknownEquipment    = errors.New("equipment does not exist")
	ErrUnknownGrant        = errors.New("grant does not exist")
	ErrUnknownPublication  = errors.New("publication does not exist")
	ErrSelfMentor          = errors.New("member cannot mentor themselves")
	ErrMentorNotFaculty    = errors.New("mentor must be a faculty member")
	ErrSubtypeTypeMismatch = errors.New("subtype does not match member kind")
	ErrLeadNotFaculty      = errors.New("project lead must be a faculty member")
	ErrInvalidDate         = errors.New("date must not be in the future")
	ErrInvalidDateRange    = errors.New("end date must not precede start date")
	ErrInvalidHours        = errors.New("hours must be between 0 and 40")
	ErrReferentialBlock    = errors.New("record is still referenced")
	ErrImmutableField      = errors.New("field is immutable")

	// ErrWeeklyHourCapExceeded is the match target for HourCapError.
	ErrWeeklyHourCapExceeded = errors.New("weekly hour cap exceeded")
)

// HourCapError reports a rejected work assignment together with the
// total the write would have produced.
type HourCapError struct {
	MID   string
	Week  int
	Total int // hours the write would have summed to for (member, week)
}

func (e *HourCapError) Error() string {
	return fmt.Sprintf("total hours for member %s in week %d would be %d, exceeding 40", e.MID, e.Week, e.Total)
}

func (e *HourCapError) Is(target error) bool {
	return target == ErrWeeklyHourCapExceeded
}
