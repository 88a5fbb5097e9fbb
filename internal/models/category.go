package models

// Category groups articles
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CategoryRequest is the body of POST and PUT /api/categories
type CategoryRequest struct {
	Name string `json:"name"`
}
