package domain

import (
	"strings"
	"time"
)

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// Priorities lists all valid priorities in display order.
var Priorities = []TaskPriority{PriorityHigh, PriorityMedium, PriorityLow}

// Statuses lists all valid statuses in display order.
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether p is one of the defined priority values.
// Matching is case-sensitive: "high" is not a valid priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Key returns the lowercase form used as a stats map key ("High" → "high").
func (p TaskPriority) Key() string {
	return strings.ToLower(string(p))
}

// Valid reports whether s is one of the defined status values.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Key returns the lowercase-hyphenated form used as a stats map key
// ("In Progress" → "in-progress").
func (s TaskStatus) Key() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

const (
	// DefaultCategory is applied when a task is created without a category.
	DefaultCategory = "General"

	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// Task is the core record: a single unit of work owned by one user.
// UserID is set from the authenticated identity at creation and never
// changes afterwards.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	UserID      string       `json:"user"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
