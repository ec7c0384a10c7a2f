package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/store"
)

const (
	msgTitleRequired = "Title is required"
	msgTaskNotFound  = "Task not found"
)

func (h *Handler) GetTasks(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	tasks, err := h.store.ListTasks(c.Request.Context(), owner)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to load tasks", err)
		return
	}

	c.JSON(http.StatusOK, models.TaskListResponse{Tasks: tasks})
}

func (h *Handler) CreateTask(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	task, ok := taskFromRequest(c)
	if !ok {
		return
	}
	task.UserID = owner

	if err := h.store.CreateTask(c.Request.Context(), &task); err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	c.JSON(http.StatusCreated, models.TaskResponse{Task: task})
}

func (h *Handler) UpdateTask(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	task, ok := taskFromRequest(c)
	if !ok {
		return
	}

	// An id that is not a UUID cannot match a row.
	taskId, err := parseId(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: msgTaskNotFound})
		return
	}
	task.ID = taskId
	task.UserID = owner

	err = h.store.UpdateTask(c.Request.Context(), &task)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: msgTaskNotFound})
		return
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to update task", err)
		return
	}

	c.JSON(http.StatusOK, models.TaskResponse{Task: task})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	taskId, err := parseId(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: msgTaskNotFound})
		return
	}

	err = h.store.DeleteTask(c.Request.Context(), taskId, owner)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: msgTaskNotFound})
		return
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) owner(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing auth token"})
		return uuid.Nil, false
	}
	return id.ID, true
}

// taskFromRequest applies the create/update rules: trimmed non-empty
// title, trimmed description, status defaulting to open.
func taskFromRequest(c *gin.Context) (models.Task, bool) {
	request := models.TaskRequest{}
	if !bindJSON(c, &request, msgTitleRequired) {
		return models.Task{}, false
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: msgTitleRequired})
		return models.Task{}, false
	}

	status := request.Status
	if status == "" {
		status = models.DefaultTaskStatus
	}

	return models.Task{
		Title:       title,
		Description: strings.TrimSpace(request.Description),
		Status:      status,
	}, true
}
