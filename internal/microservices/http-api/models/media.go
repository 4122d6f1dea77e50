package models

import (
	"strings"
	"time"
)

type MediaType string

const (
	MediaTypeMovie  MediaType = "MOVIE"
	MediaTypeSeries MediaType = "SERIES"
	MediaTypeGame   MediaType = "GAME"
)

// ParseMediaType accepts any casing and reports whether the value is known.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(strings.ToUpper(strings.TrimSpace(s))) {
	case MediaTypeMovie:
		return MediaTypeMovie, true
	case MediaTypeSeries:
		return MediaTypeSeries, true
	case MediaTypeGame:
		return MediaTypeGame, true
	}
	return "", false
}

type MediaEntry struct {
	ID             int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string       `gorm:"not null;index" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	MediaType      MediaType    `gorm:"type:varchar(16);not null" json:"media_type"`
	ReleaseYear    int          `json:"release_year"`
	AgeRestriction int          `gorm:"not null;default:0" json:"age_restriction"`
	CreatorID      int64        `gorm:"not null;index" json:"creator_id"`
	AverageRating  float64      `gorm:"not null;default:0" json:"average_rating"`
	Genres         []MediaGenre `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"-"`
}

func (MediaEntry) TableName() string {
	return "media_entries"
}

// GenreNames flattens the genre rows into plain strings.
func (m *MediaEntry) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Genre)
	}
	return names
}

// SetGenres replaces the genre rows, dropping blanks and duplicates.
func (m *MediaEntry) SetGenres(names []string) {
	seen := make(map[string]bool, len(names))
	genres := make([]MediaGenre, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		genres = append(genres, MediaGenre{EntryID: m.ID, Genre: n})
	}
	m.Genres = genres
}

type MediaGenre struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	EntryID int64  `gorm:"not null;uniqueIndex:idx_media_genres_entry_genre" json:"-"`
	Genre   string `gorm:"not null;uniqueIndex:idx_media_genres_entry_genre" json:"genre"`
}

func (MediaGenre) TableName() string {
	return "media_genres"
}
