package models

import "time"

const (
	MinStars = 1
	MaxStars = 5
)

type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EntryID   int64     `json:"entry_id" gorm:"not null;uniqueIndex:idx_ratings_entry_user"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_entry_user;index"`
	StarValue int       `json:"star_value" gorm:"not null;check:star_value >= 1 AND star_value <= 5"`
	Comment   string    `json:"comment" gorm:"type:text;not null;default:''"`
	Confirmed bool      `json:"confirmed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// filled by listing queries only
	LikeCount int64 `json:"like_count" gorm:"->;-:migration"`

	Entry *MediaEntry `json:"-" gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE;"`
	User  *User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}

// ValidStars reports whether v is an acceptable star value.
func ValidStars(v int) bool {
	return v >= MinStars && v <= MaxStars
}
