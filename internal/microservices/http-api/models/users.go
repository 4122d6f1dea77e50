package models

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Salt         string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile holds the editable part of a user, one row per user.
type UserProfile struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64  `gorm:"uniqueIndex;not null" json:"user_id"`
	Email         string `gorm:"not null;default:''" json:"email"`
	FavoriteGenre string `gorm:"not null;default:''" json:"favorite_genre"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
