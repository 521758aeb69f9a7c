package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog stores warnings, errors and security audit events.
type SystemLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	EventType string         `gorm:"size:50;index" json:"event_type"`
	Message   string         `gorm:"type:text" json:"message"`
	UserID    *uint          `json:"user_id"`
	IP        string         `gorm:"size:64" json:"ip"`
	Reason    string         `gorm:"size:255" json:"reason"`
	Path      string         `gorm:"size:255" json:"path"`
	TraceID   string         `gorm:"size:36;index" json:"trace_id"`
	Error     string         `gorm:"type:text" json:"error"`
	Extra     datatypes.JSON `json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
}
