package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

// dueDateLayouts are the accepted formats for the dueDate field, tried in order.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// TaskService implements the task CRUD and aggregation use cases. All
// operations are scoped to the calling user's ID; ownership checks live
// in the repository filters, so a foreign task is indistinguishable from
// a missing one.
type TaskService struct {
	tasks ports.TaskRepository
	log   zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, log: log}
}

// List returns the user's tasks matching the optional filters, sorted by
// the requested field (createdAt descending by default).
func (s *TaskService) List(ctx context.Context, userID string, input ports.ListTasksInput) ([]*domain.Task, error) {
	filter := ports.ListTasksFilter{
		UserID:    userID,
		Status:    input.Status,
		Priority:  input.Priority,
		Category:  input.Category,
		SortBy:    input.SortBy,
		Ascending: strings.EqualFold(input.Order, "asc"),
	}
	return s.tasks.List(ctx, filter)
}

// Get fetches a single task owned by the user.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, userID, taskID)
}

// Create validates the input, applies defaults for unset optional fields,
// and persists a task owned by the user.
func (s *TaskService) Create(ctx context.Context, userID string, input ports.CreateTaskInput) (*domain.Task, error) {
	ve := domain.NewValidationError()

	title := strings.TrimSpace(input.Title)
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		ve.Add("title", "title is required")
	case n > domain.MaxTitleLen:
		ve.Addf("title", "title must be at most %d characters", domain.MaxTitleLen)
	}

	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLen {
		ve.Addf("description", "description must be at most %d characters", domain.MaxDescriptionLen)
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority = domain.TaskPriority(input.Priority)
		if !priority.Valid() {
			ve.Add("priority", "priority must be one of: High, Medium, Low")
		}
	}

	status := domain.StatusPending
	if input.Status != "" {
		status = domain.TaskStatus(input.Status)
		if !status.Valid() {
			ve.Add("status", "status must be one of: Pending, In Progress, Completed")
		}
	}

	var dueDate *time.Time
	if input.DueDate != "" {
		parsed, err := parseDueDate(input.DueDate)
		if err != nil {
			ve.Add("dueDate", "dueDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
		} else {
			dueDate = &parsed
		}
	}

	if !ve.Empty() {
		return nil, ve
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      status,
		DueDate:     dueDate,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", created.ID).Str("user_id", userID).Msg("task created")
	return created, nil
}

// Update applies a partial update to a task owned by the user. Fields
// absent from the input are left unchanged; updatedAt is always refreshed.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, input ports.UpdateTaskInput) (*domain.Task, error) {
	ve := domain.NewValidationError()
	var update ports.TaskUpdate

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		switch n := utf8.RuneCountInString(title); {
		case n == 0:
			ve.Add("title", "title cannot be empty")
		case n > domain.MaxTitleLen:
			ve.Addf("title", "title must be at most %d characters", domain.MaxTitleLen)
		}
		update.Title = &title
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if utf8.RuneCountInString(description) > domain.MaxDescriptionLen {
			ve.Addf("description", "description must be at most %d characters", domain.MaxDescriptionLen)
		}
		update.Description = &description
	}

	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			category = domain.DefaultCategory
		}
		update.Category = &category
	}

	if input.Priority != nil {
		priority := domain.TaskPriority(*input.Priority)
		if !priority.Valid() {
			ve.Add("priority", "priority must be one of: High, Medium, Low")
		}
		update.Priority = &priority
	}

	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		if !status.Valid() {
			ve.Add("status", "status must be one of: Pending, In Progress, Completed")
		}
		update.Status = &status
	}

	if input.DueDate != nil {
		update.DueDateSet = true
		if *input.DueDate != "" {
			parsed, err := parseDueDate(*input.DueDate)
			if err != nil {
				ve.Add("dueDate", "dueDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
			} else {
				update.DueDate = &parsed
			}
		}
	}

	if !ve.Empty() {
		return nil, ve
	}

	updated, err := s.tasks.Update(ctx, userID, taskID, update)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Str("user_id", userID).Msg("task updated")
	return updated, nil
}

// Delete removes a task owned by the user and returns its prior state.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	deleted, err := s.tasks.Delete(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Str("user_id", userID).Msg("task deleted")
	return deleted, nil
}

// Stats shapes the repository's raw group-and-count results: enum keys
// are normalized (lowercase, hyphenated statuses) and zero counts are
// filled in so every enum value appears in the response.
func (s *TaskService) Stats(ctx context.Context, userID string) (*ports.StatsResult, error) {
	raw, err := s.tasks.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(domain.Statuses))
	for _, st := range domain.Statuses {
		byStatus[st.Key()] = raw.StatusCounts[string(st)]
	}

	byPriority := make(map[string]int64, len(domain.Priorities))
	for _, p := range domain.Priorities {
		byPriority[p.Key()] = raw.PriorityCounts[string(p)]
	}

	top := raw.TopCategories
	if top == nil {
		top = []ports.CategoryCount{}
	}

	return &ports.StatsResult{
		Total:         raw.Total,
		ByStatus:      byStatus,
		ByPriority:    byPriority,
		TopCategories: top,
	}, nil
}

func parseDueDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
