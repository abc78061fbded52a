package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/metrics"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

// TaskHandler handles the task CRUD and stats endpoints. Every route is
// behind the Auth middleware; the user ID pulled from context scopes all
// service calls.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /tasks.
//
// @Summary      List the user's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "Filter by status (exact enum value)"
// @Param        priority  query  string  false  "Filter by priority (exact enum value)"
// @Param        category  query  string  false  "Filter by category"
// @Param        sortBy    query  string  false  "Sort field (default createdAt)"
// @Param        order     query  string  false  "asc or desc (default desc)"
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), userID, toListInput(c))
	if err != nil {
		return err
	}

	return respondCount(c, http.StatusOK, len(tasks), taskListData{Tasks: tasks})
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a single task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, taskData{Task: task})
}

// Create handles POST /tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task fields"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Create(c.Request().Context(), userID, toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return respondMsg(c, http.StatusCreated, "Task created successfully", taskData{Task: task})
}

// Update handles PUT /tasks/:id.
//
// @Summary      Update a task (partial)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}

	return respondMsg(c, http.StatusOK, "Task updated successfully", taskData{Task: task})
}

// Delete handles DELETE /tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	task, err := h.service.Delete(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TasksDeletedTotal.Inc()
	return respondMsg(c, http.StatusOK, "Task deleted successfully", taskData{Task: task})
}

// Stats handles GET /tasks/stats.
//
// @Summary      Aggregate statistics over the user's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Router       /tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, stats)
}
