package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Task priorities
const (
	PriorityLow    = 0
	PriorityMedium = 1
	PriorityHigh   = 2
)

// Task is an editorial to-do item, optionally assigned to a user
type Task struct {
	ID           int64      `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	IsCompleted  bool       `json:"isCompleted" db:"is_completed"`
	Priority     int        `json:"priority" db:"priority"`
	DueDate      *time.Time `json:"dueDate" db:"due_date"`
	AssignedToID *int64     `json:"assignedToId" db:"assigned_to_id"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	// AssignedTo is only populated on admin listings
	AssignedTo *Assignee `json:"assignedTo,omitempty" db:"-"`
}

// Assignee is the short form of the user a task is assigned to
type Assignee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Priority     *int       `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	AssignedToID *int64     `json:"assignedToId"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id
type UpdateTaskRequest struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	IsCompleted  *bool         `json:"isCompleted"`
	Priority     *int          `json:"priority"`
	DueDate      *time.Time    `json:"dueDate"`
	AssignedToID OptionalInt64 `json:"assignedToId"`
}

// OptionalInt64 distinguishes an absent JSON field from an explicit null.
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
