package services

import (
	"encoding/json"
	"time"

	"github.com/openlabtools/labregistry/internal/models"
	"github.com/openlabtools/labregistry/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var globalDB *gorm.DB

// InitSystemLogger sets the database used by the package-level audit
// log helpers.
func InitSystemLogger(db *gorm.DB) {
	globalDB = db
}

func LogInfo(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeLog("info", module, action, message, userID, ip, userAgent, extra)
}

func LogWarning(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeLog("warning", module, action, message, userID, ip, userAgent, extra)
}

func LogError(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeLog("error", module, action, message, userID, ip, userAgent, extra)
}

func writeLog(level, module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	if globalDB == nil {
		return
	}

	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := &models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	globalDB.Create(entry)
}

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

type SystemLogListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Level    string `form:"level"`
	Module   string `form:"module"`
}

type SystemLogListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []models.SystemLog `json:"items"`
}

func (s *SystemLogService) List(req *SystemLogListRequest) (*SystemLogListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.SystemLog{})
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}

	var total int64
	query.Count(&total)

	var items []models.SystemLog
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &SystemLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// CleanupOlderThan deletes log rows past the retention window and
// returns the deleted count.
func (s *SystemLogService) CleanupOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

var cleanupScheduler *cron.Cron

// StartLogCleanupScheduler prunes old system logs nightly.
func StartLogCleanupScheduler(db *gorm.DB, retentionDays int) {
	svc := NewSystemLogService(db)

	cleanupScheduler = cron.New()
	_, err := cleanupScheduler.AddFunc("0 3 * * *", func() {
		deleted, err := svc.CleanupOlderThan(retentionDays)
		if err != nil {
			logger.Error().Err(err).Msg("system log cleanup failed")
			return
		}
		if deleted > 0 {
			logger.Info().Int64("deleted", deleted).Msg("system logs pruned")
		}
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to schedule log cleanup")
		return
	}
	cleanupScheduler.Start()
}

// StopLogCleanupScheduler stops the cleanup cron.
func StopLogCleanupScheduler() {
	if cleanupScheduler != nil {
		cleanupScheduler.Stop()
	}
}
