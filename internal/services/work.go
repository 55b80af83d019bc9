package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/openlabtools/labregistry/internal/models"
	"gorm.io/gorm"
)

// keyedMutex serializes writers per key while letting writers with
// different keys proceed concurrently. Entries are reference-counted so
// the table does not grow with every (member, week) ever seen.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

func (k *keyedMutex) lock(key string) *keyLock {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return l
}

func (k *keyedMutex) unlock(key string, l *keyLock) {
	l.mu.Unlock()

	k.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

// WorkService records weekly work assignments and enforces the 40-hour
// aggregate cap. The cap spans every project a member works on in a
// week, so the check-then-write sequence runs under a per-(member, week)
// lock wrapped around the transaction: two concurrent writers for the
// same member and week are serialized, writers for different pairs are
// not.
type WorkService struct {
	db        *gorm.DB
	weekLocks *keyedMutex
}

func NewWorkService(db *gorm.DB) *WorkService {
	return &WorkService{db: db, weekLocks: newKeyedMutex()}
}

type RecordWorkRequest struct {
	PID   string `json:"pid" binding:"required"`
	MID   string `json:"mid" binding:"required"`
	Week  int    `json:"week" binding:"required,min=1,max=52"`
	Role  string `json:"role" binding:"required"`
	Hours int    `json:"hours"`
}

// RecordWork inserts or updates the assignment for (project, member,
// week). The caller sees either a committed row that keeps the weekly
// total at or below 40, or a typed rejection; never a partial state.
func (s *WorkService) RecordWork(req *RecordWorkRequest) (*models.WorkAssignment, error) {
	if req.Hours < 0 || req.Hours > models.MaxWeeklyHours {
		return nil, ErrInvalidHours
	}

	key := fmt.Sprintf("%s|%d", req.MID, req.Week)
	l := s.weekLocks.lock(key)
	defer s.weekLocks.unlock(key, l)

	var assignment models.WorkAssignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Project{}).Where("pid = ?", req.PID).Count(&count)
		if count == 0 {
			return ErrUnknownProject
		}
		tx.Model(&models.Member{}).Where("mid = ?", req.MID).Count(&count)
		if count == 0 {
			return ErrUnknownMember
		}

		if err := checkWeeklyHours(tx, req.PID, req.MID, req.Week, req.Hours); err != nil {
			return err
		}

		err := tx.Where("pid = ? AND mid = ? AND week = ?", req.PID, req.MID, req.Week).
			First(&assignment).Error
		switch {
		case err == nil:
			assignment.Role = req.Role
			assignment.Hours = req.Hours
			return tx.Save(&assignment).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			assignment = models.WorkAssignment{
				PID:   req.PID,
				MID:   req.MID,
				Week:  req.Week,
				Role:  req.Role,
				Hours: req.Hours,
			}
			return tx.Create(&assignment).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return &assignment, nil
}

// DeleteWork removes the assignment for (project, member, week).
func (s *WorkService) DeleteWork(pid, mid string, week int) error {
	key := fmt.Sprintf("%s|%d", mid, week)
	l := s.weekLocks.lock(key)
	defer s.weekLocks.unlock(key, l)

	result := s.db.Where("pid = ? AND mid = ? AND week = ?", pid, mid, week).
		Delete(&models.WorkAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByMember returns a member's assignments, optionally for one week.
func (s *WorkService) ListByMember(mid string, week *int) ([]models.WorkAssignment, error) {
	var count int64
	s.db.Model(&models.Member{}).Where("mid = ?", mid).Count(&count)
	if count == 0 {
		return nil, ErrUnknownMember
	}

	query := s.db.Where("mid = ?", mid)
	if week != nil {
		query = query.Where("week = ?", *week)
	}

	var assignments []models.WorkAssignment
	if err := query.Order("week ASC, pid ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// WeeklyTotal returns the summed hours for a member in a week.
func (s *WorkService) WeeklyTotal(mid string, week int) (int, error) {
	var total int64
	err := s.db.Model(&models.WorkAssignment{}).
		Where("mid = ? AND week = ?", mid, week).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	return int(total), err
}
