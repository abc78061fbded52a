package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

type stubTaskService struct {
	listFn   func(ctx context.Context, userID string, input ports.ListTasksInput) ([]*domain.Task, error)
	getFn    func(ctx context.Context, userID, taskID string) (*domain.Task, error)
	createFn func(ctx context.Context, userID string, input ports.CreateTaskInput) (*domain.Task, error)
	updateFn func(ctx context.Context, userID, taskID string, input ports.UpdateTaskInput) (*domain.Task, error)
	deleteFn func(ctx context.Context, userID, taskID string) (*domain.Task, error)
	statsFn  func(ctx context.Context, userID string) (*ports.StatsResult, error)
}

func (s *stubTaskService) List(ctx context.Context, userID string, input ports.ListTasksInput) ([]*domain.Task, error) {
	return s.listFn(ctx, userID, input)
}

func (s *stubTaskService) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.getFn(ctx, userID, taskID)
}

func (s *stubTaskService) Create(ctx context.Context, userID string, input ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, userID, input)
}

func (s *stubTaskService) Update(ctx context.Context, userID, taskID string, input ports.UpdateTaskInput) (*domain.Task, error) {
	return s.updateFn(ctx, userID, taskID, input)
}

func (s *stubTaskService) Delete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.deleteFn(ctx, userID, taskID)
}

func (s *stubTaskService) Stats(ctx context.Context, userID string) (*ports.StatsResult, error) {
	return s.statsFn(ctx, userID)
}

func TestTaskHandler_Create_Success(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(_ context.Context, userID string, input ports.CreateTaskInput) (*domain.Task, error) {
			if userID != "user_1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			if input.Title != "Buy milk" {
				t.Fatalf("unexpected title %q", input.Title)
			}
			return &domain.Task{
				ID:       "task_1",
				Title:    input.Title,
				Category: "General",
				Priority: domain.PriorityMedium,
				Status:   domain.StatusPending,
				UserID:   userID,
			}, nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)
	c.Set("userID", "user_1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["status"] != "success" || resp["message"] != "Task created successfully" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
	data, _ := resp["data"].(map[string]any)
	task, _ := data["task"].(map[string]any)
	if task["category"] != "General" || task["priority"] != "Medium" || task["status"] != "Pending" {
		t.Fatalf("unexpected task defaults: %v", task)
	}
}

func TestTaskHandler_Create_ValidationErrorPropagates(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		createFn: func(context.Context, string, ports.CreateTaskInput) (*domain.Task, error) {
			return nil, domain.Validationf("title", "title is required")
		},
	})

	c, _ := newJSONContext(t, http.MethodPost, "/api/tasks", `{}`)
	c.Set("userID", "user_1")

	err := h.Create(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTaskHandler_List(t *testing.T) {
	now := time.Now().UTC()
	stub := &stubTaskService{
		listFn: func(_ context.Context, userID string, input ports.ListTasksInput) ([]*domain.Task, error) {
			if input.Status != "Pending" || input.SortBy != "dueDate" || input.Order != "asc" {
				t.Fatalf("query params not mapped: %+v", input)
			}
			return []*domain.Task{
				{ID: "task_1", Title: "a", UserID: userID, CreatedAt: now},
				{ID: "task_2", Title: "b", UserID: userID, CreatedAt: now},
			}, nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/api/tasks?status=Pending&sortBy=dueDate&order=asc", "")
	c.Set("userID", "user_1")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["count"] != float64(2) {
		t.Fatalf("expected count 2, got %v", resp["count"])
	}
	data, _ := resp["data"].(map[string]any)
	tasks, _ := data["tasks"].([]any)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
}

func TestTaskHandler_List_EmptyIsNotAnError(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		listFn: func(context.Context, string, ports.ListTasksInput) ([]*domain.Task, error) {
			return []*domain.Task{}, nil
		},
	})

	c, rec := newJSONContext(t, http.MethodGet, "/api/tasks", "")
	c.Set("userID", "user_1")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["count"] != float64(0) {
		t.Fatalf("expected count 0, got %v", resp["count"])
	}
}

func TestTaskHandler_Get_NotFoundPropagates(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		getFn: func(context.Context, string, string) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	})

	c, _ := newJSONContext(t, http.MethodGet, "/api/tasks/abc", "")
	c.Set("userID", "user_1")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := h.Get(c); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskHandler_Update(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(_ context.Context, userID, taskID string, input ports.UpdateTaskInput) (*domain.Task, error) {
			if taskID != "task_1" {
				t.Fatalf("unexpected task id %q", taskID)
			}
			if input.Status == nil || *input.Status != "Completed" {
				t.Fatalf("status not mapped: %+v", input)
			}
			if input.Title != nil {
				t.Fatalf("absent title should stay nil")
			}
			return &domain.Task{ID: taskID, Title: "kept", Status: domain.StatusCompleted, UserID: userID}, nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newJSONContext(t, http.MethodPut, "/api/tasks/task_1", `{"status":"Completed"}`)
	c.Set("userID", "user_1")
	c.SetParamNames("id")
	c.SetParamValues("task_1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "Task updated successfully" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		deleteFn: func(_ context.Context, userID, taskID string) (*domain.Task, error) {
			return &domain.Task{ID: taskID, Title: "gone", UserID: userID}, nil
		},
	})

	c, rec := newJSONContext(t, http.MethodDelete, "/api/tasks/task_1", "")
	c.Set("userID", "user_1")
	c.SetParamNames("id")
	c.SetParamValues("task_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "Task deleted successfully" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
	data, _ := resp["data"].(map[string]any)
	task, _ := data["task"].(map[string]any)
	if task["title"] != "gone" {
		t.Fatalf("expected prior state in response, got %v", task)
	}
}

func TestTaskHandler_Stats(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		statsFn: func(context.Context, string) (*ports.StatsResult, error) {
			return &ports.StatsResult{
				Total:         3,
				ByStatus:      map[string]int64{"pending": 2, "in-progress": 1, "completed": 0},
				ByPriority:    map[string]int64{"high": 1, "medium": 2, "low": 0},
				TopCategories: []ports.CategoryCount{{Category: "Work", Count: 2}, {Category: "General", Count: 1}},
			}, nil
		},
	})

	c, rec := newJSONContext(t, http.MethodGet, "/api/tasks/stats", "")
	c.Set("userID", "user_1")

	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeBody(t, rec)
	data, _ := resp["data"].(map[string]any)
	if data["total"] != float64(3) {
		t.Fatalf("expected total 3, got %v", data["total"])
	}
	byStatus, _ := data["byStatus"].(map[string]any)
	if byStatus["in-progress"] != float64(1) || byStatus["completed"] != float64(0) {
		t.Fatalf("unexpected byStatus: %v", byStatus)
	}
	top, _ := data["topCategories"].([]any)
	if len(top) != 2 {
		t.Fatalf("unexpected topCategories: %v", top)
	}
}

func TestTaskHandler_RequiresIdentity(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, _ := newJSONContext(t, http.MethodGet, "/api/tasks", "")

	err := h.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
