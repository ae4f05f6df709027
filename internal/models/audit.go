// internal/models/audit.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AuditLog records one mutating admin request.
type AuditLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
	AdminEmail   string         `json:"admin_email" gorm:"size:255;index"`
	Action       string         `json:"action" gorm:"size:150;not null;index"`
	ResourceType string         `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceIDs  pq.StringArray `json:"resource_ids" gorm:"type:text[]"`
	Status       int            `json:"status"`
	DurationMs   int64          `json:"duration_ms"`
	RequestID    string         `json:"request_id" gorm:"size:64"`
	IPAddress    string         `json:"ip_address" gorm:"size:45"`
	UserAgent    string         `json:"user_agent" gorm:"type:text"`
	NewValues    JSONB          `json:"new_values" gorm:"type:jsonb"`
}

func (AuditLog) TableName() string {
	return "admin_audit_logs"
}
