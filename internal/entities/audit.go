package entities

import "time"

type AuditEventType string

const (
	AuditEventLogin          AuditEventType = "login"
	AuditEventLoginFailed    AuditEventType = "login_failed"
	AuditEventLogout         AuditEventType = "logout"
	AuditEventAccountCreated AuditEventType = "account_created"
)

// AuditEvent records an authentication-related action for the audit trail.
// Events are pruned after the configured retention period.
type AuditEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AccountID uint           `gorm:"index" json:"account_id"`
	EventType AuditEventType `gorm:"index;size:50" json:"event_type"`
	Username  string         `gorm:"size:100" json:"username"` // as submitted, not necessarily an existing account
	IPAddress string         `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
