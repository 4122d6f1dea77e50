package models

import (
	"time"
)

// Token is a session credential. A user holds at most one at a time.
type Token struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (Token) TableName() string {
	return "tokens"
}

// ValidAt reports whether the token is still usable at now.
func (t *Token) ValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
