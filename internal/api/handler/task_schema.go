package handler

import "github.com/taskhive/task-tracker/internal/core/domain"

// createTaskRequest carries the client-settable task fields. Precise
// rules (trimming, length limits, enum membership, date parsing) are
// enforced by the task service, which owns the ValidationError detail.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

// updateTaskRequest uses pointers so an absent field can be told apart
// from an explicit zero value: nil means "leave unchanged".
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}

type taskData struct {
	Task *domain.Task `json:"task"`
}

type taskListData struct {
	Tasks []*domain.Task `json:"tasks"`
}
