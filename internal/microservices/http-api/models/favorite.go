package models

import "time"

type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_favorites_user_entry" json:"user_id"`
	EntryID   int64     `gorm:"not null;uniqueIndex:idx_favorites_user_entry;index" json:"entry_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Entry *MediaEntry `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE;" json:"entry,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
