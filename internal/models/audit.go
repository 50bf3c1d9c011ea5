// internal/models/audit.go
package models

import "time"

// AuditLog records one mutating API request.
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       *uint     `json:"user_id" gorm:"index:idx_audit_logs_user_action,priority:1"`
	Action       string    `json:"action" gorm:"size:100;not null;index:idx_audit_logs_user_action,priority:2"`
	ResourceType string    `json:"resource_type" gorm:"size:50;not null;index:idx_audit_logs_resource,priority:1"`
	ResourceID   *uint     `json:"resource_id" gorm:"index:idx_audit_logs_resource,priority:2"`
	Status       int       `json:"status"`
	RequestID    string    `json:"request_id" gorm:"size:36"`
	NewValues    JSONB     `json:"new_values" gorm:"type:text"`
	IPAddress    string    `json:"ip_address" gorm:"size:45"`
	UserAgent    string    `json:"user_agent" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
