// internal/database/audit_store.go
package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/utils"
)

// AuditRecorder persists one audit entry.
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

// AuditFilter narrows an audit listing. Empty fields match everything.
type AuditFilter struct {
	AdminEmail   string
	ResourceType string
	ResourceID   string
}

// AuditReader lists stored audit entries.
type AuditReader interface {
	List(ctx context.Context, params utils.PaginationParams, filter AuditFilter) ([]models.AuditLog, int64, error)
}

var auditSortFields = []string{"created_at", "action", "status", "duration_ms", "admin_email"}

type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Record(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (s *AuditStore) List(ctx context.Context, params utils.PaginationParams, filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.AdminEmail != "" {
		query = query.Where("admin_email = ?", filter.AdminEmail)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		query = query.Where("? = ANY(resource_ids)", filter.ResourceID)
	}
	if params.Search != "" {
		query = query.Where("action ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []models.AuditLog
	query = utils.ApplySort(query, params, auditSortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, total, nil
}

// LogRecorder writes audit entries to the process log when no database is
// configured.
type LogRecorder struct{}

func (LogRecorder) Record(_ context.Context, entry *models.AuditLog) error {
	logrus.WithFields(logrus.Fields{
		"audit":         true,
		"admin_email":   entry.AdminEmail,
		"action":        entry.Action,
		"resource_type": entry.ResourceType,
		"resource_ids":  []string(entry.ResourceIDs),
		"status":        entry.Status,
		"duration":      entry.DurationMs,
		"request_id":    entry.RequestID,
		"ip":            entry.IPAddress,
	}).Info("Admin action")
	return nil
}
