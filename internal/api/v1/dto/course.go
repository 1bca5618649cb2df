package dto

import "time"

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price" validate:"required,gte=0,lte=100000"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	VideoURL     *string  `json:"video_url,omitempty"`
	Duration     *int     `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Level        *string  `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	IsPublished  *bool    `json:"is_published,omitempty"`
}

// CourseUpdateDTO is used for incoming course update requests
type CourseUpdateDTO struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=100000"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	VideoURL     *string  `json:"video_url,omitempty"`
	Duration     *int     `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Level        *string  `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	IsPublished  *bool    `json:"is_published,omitempty"`
}

// CourseResponseDTO is the public view of a course. It never carries the video.
type CourseResponseDTO struct {
	CourseID     string    `json:"course_id"`
	EducatorID   string    `json:"educator_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	PriceCents   int64     `json:"price_cents"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Duration     *int      `json:"duration,omitempty"`
	Level        *string   `json:"level,omitempty"`
	Category     *string   `json:"category,omitempty"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EducatorCourseResponseDTO is what the owning educator sees, including the
// stored video reference.
type EducatorCourseResponseDTO struct {
	CourseResponseDTO
	VideoURL *string `json:"video_url,omitempty"`
}

// CatalogItemDTO is one entry of the published catalogue
type CatalogItemDTO struct {
	CourseResponseDTO
	Purchased bool `json:"purchased"`
}

// AccessDTO describes what the viewer may see of the protected content
type AccessDTO struct {
	State    string `json:"state"`
	Locked   bool   `json:"locked"`
	Owner    bool   `json:"owner"`
	MediaURL string `json:"media_url,omitempty"`
}

// CourseDetailResponseDTO is a course page
type CourseDetailResponseDTO struct {
	CourseResponseDTO
	Access AccessDTO `json:"access"`
}
