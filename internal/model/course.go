package model

import (
	"fmt"
	"time"
)

// Level is the difficulty of a course.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course is owned by an educator and visible to others only once published.
type Course struct {
	CourseID     string    `db:"id" json:"course_id"`
	EducatorID   string    `db:"educator_id" json:"educator_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	PriceCents   int64     `db:"price" json:"price_cents"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	VideoURL     *string   `db:"video_url" json:"video_url,omitempty"`
	Duration     *int      `db:"duration" json:"duration,omitempty"` // minutes
	Level        *Level    `db:"level" json:"level,omitempty"`
	Category     *string   `db:"category" json:"category,omitempty"`
	IsPublished  bool      `db:"is_published" json:"is_published"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VisibleTo reports whether userID may see the course at all. Unpublished
// courses are only visible to their owner.
func (c *Course) VisibleTo(userID string) bool {
	return c.IsPublished || (userID != "" && c.EducatorID == userID)
}

// OwnedBy reports whether userID is the owning educator.
func (c *Course) OwnedBy(userID string) bool {
	return userID != "" && c.EducatorID == userID
}

// FormatPrice renders cents as a decimal string, e.g. 4999 -> "49.99".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
