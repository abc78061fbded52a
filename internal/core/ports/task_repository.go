package ports

import (
	"context"
	"time"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// ListTasksFilter carries query parameters for listing tasks. UserID is
// always set by the service layer; the repository must apply it to every
// query so a user can never see another user's tasks.
type ListTasksFilter struct {
	UserID    string
	Status    string // optional: exact match against the status enum
	Priority  string // optional: exact match against the priority enum
	Category  string // optional: exact match
	SortBy    string // sort field in API naming; unknown values fall back to createdAt
	Ascending bool   // false = descending (default)
}

// TaskUpdate carries a partial update. Nil pointers mean "leave unchanged";
// DueDateSet distinguishes "clear the due date" from "leave it alone".
type TaskUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *domain.TaskPriority
	Status      *domain.TaskStatus
	DueDate     *time.Time
	DueDateSet  bool
}

// CategoryCount is one entry of the top-categories aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TaskStats is the raw aggregation result, scoped to one user. StatusCounts
// and PriorityCounts are keyed by the stored enum values; zero-count values
// are absent (the service zero-fills them).
type TaskStats struct {
	Total          int64
	StatusCounts   map[string]int64
	PriorityCounts map[string]int64
	TopCategories  []CategoryCount
}

// TaskRepository defines persistence operations for tasks. Every method
// that touches an existing task filters by both task ID and owning user,
// returning domain.ErrTaskNotFound when no such pair exists.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, userID, taskID string) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, error)
	// Update applies the set fields and refreshes updatedAt, returning the
	// post-update document.
	Update(ctx context.Context, userID, taskID string, update TaskUpdate) (*domain.Task, error)
	// Delete removes the task and returns its prior state.
	Delete(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Stats(ctx context.Context, userID string) (*TaskStats, error)
}
