package models

import "time"

type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RatingID  int64     `gorm:"not null;uniqueIndex:idx_likes_rating_user" json:"rating_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_likes_rating_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Rating *Rating `gorm:"foreignKey:RatingID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
