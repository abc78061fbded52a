package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTaskRequest) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
}

func toUpdateInput(req updateTaskRequest) ports.UpdateTaskInput {
	return ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
}

// toListInput reads the list endpoint's query parameters off the request.
func toListInput(c echo.Context) ports.ListTasksInput {
	return ports.ListTasksInput{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Category: c.QueryParam("category"),
		SortBy:   c.QueryParam("sortBy"),
		Order:    c.QueryParam("order"),
	}
}
