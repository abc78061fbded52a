package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// CreateTaskInput carries the client-supplied fields for a new task.
// DueDate is the raw string from the request; the service parses and
// validates it. The owning user always comes from the identity argument,
// never from client input.
type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	DueDate     string
}

// UpdateTaskInput carries a partial update. Nil pointers mean the field
// was absent from the request body and must be left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
	Status      *string
	DueDate     *string
}

// ListTasksInput carries the query parameters of the list endpoint.
type ListTasksInput struct {
	Status   string
	Priority string
	Category string
	SortBy   string
	Order    string // "asc" or "desc"; anything else falls back to desc
}

// StatsResult is the fully shaped aggregate view returned to clients.
// ByStatus and ByPriority contain an entry for every enum value, zero
// counts included. TopCategories holds at most five entries, descending
// by count; order among equal counts is not defined.
type StatsResult struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"byStatus"`
	ByPriority    map[string]int64 `json:"byPriority"`
	TopCategories []CategoryCount  `json:"topCategories"`
}

// TaskService defines the task use cases. Every method takes the
// authenticated user's ID and operates only on that user's tasks.
type TaskService interface {
	List(ctx context.Context, userID string, input ListTasksInput) ([]*domain.Task, error)
	Get(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Create(ctx context.Context, userID string, input CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Stats(ctx context.Context, userID string) (*StatsResult, error)
}
