package models

import "time"

// Session holds the one active access token per user for the database
// session store. Only the token hash is persisted.
type Session struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	TokenHash string    `gorm:"not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}
