package models

import (
	"time"
)

// ArticleStatus is the workflow state of an article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "DRAFT"
	StatusReview    ArticleStatus = "REVIEW"
	StatusRejected  ArticleStatus = "REJECTED"
	StatusPublished ArticleStatus = "PUBLISHED"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[ArticleStatus]bool{
	StatusDraft:     true,
	StatusReview:    true,
	StatusRejected:  true,
	StatusPublished: true,
}

// Article represents an article in the system
type Article struct {
	ID          int64         `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Slug        string        `json:"slug" db:"slug"`
	Summary     string        `json:"summary" db:"summary"`
	Content     string        `json:"content" db:"content"`
	Thumbnail   *string       `json:"thumbnail" db:"thumbnail"`
	Status      ArticleStatus `json:"status" db:"status"`
	PublishedAt *time.Time    `json:"publishedAt" db:"published_at"`
	AuthorID    int64         `json:"authorId" db:"author_id"`
	CategoryID  *int64        `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}

// CreateArticleRequest is the body of POST /api/articles
type CreateArticleRequest struct {
	Title      string         `json:"title"`
	Summary    string         `json:"summary"`
	Content    string         `json:"content"`
	Thumbnail  *string        `json:"thumbnail"`
	Status     *ArticleStatus `json:"status"`
	CategoryID *int64         `json:"categoryId"`
}

// UpdateArticleRequest is the body of PUT /api/articles/:id.
// Nil fields are left untouched; an explicit null categoryId clears the category.
type UpdateArticleRequest struct {
	Title      *string        `json:"title"`
	Summary    *string        `json:"summary"`
	Content    *string        `json:"content"`
	Thumbnail  *string        `json:"thumbnail"`
	Status     *ArticleStatus `json:"status"`
	CategoryID OptionalInt64  `json:"categoryId"`
}

// ReviewRequest is the body of PATCH /api/articles/:id/review
type ReviewRequest struct {
	Status ArticleStatus `json:"status"`
}
