package models

// AuditLog is one mutating command, kept for traceability. Rows are never
// updated.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"size:64;not null" json:"action"`
	ResourceType string `gorm:"size:64;not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IPAddress    string `gorm:"size:45" json:"ip_address"`
	RequestID    string `gorm:"size:36;index" json:"request_id,omitempty"`
	// Changes holds the JSON-encoded payload of the command, if any.
	Changes string `json:"changes,omitempty"`
}
