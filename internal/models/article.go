package models

import "time"

type Article struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Summary       string     `json:"summary,omitempty"`
	Content       string     `json:"content"` // HTML body
	Category      string     `json:"category"`
	ThumbnailPath string     `json:"thumbnail_path,omitempty"`
	ThumbnailURL  string     `json:"thumbnail_url,omitempty"`
	AuthorID      int        `json:"author_id,omitempty"`
	ViewCount     int        `json:"view_count"`
	IsPublished   bool       `json:"is_published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ArticleInput struct {
	Title       string `json:"title" validate:"required,min=5,max=200"`
	Summary     string `json:"summary,omitempty" validate:"max=500"`
	Content     string `json:"content" validate:"required"`
	Category    string `json:"category" validate:"required,max=50"`
	IsPublished bool   `json:"is_published"`
}
