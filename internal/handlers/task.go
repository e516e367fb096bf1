package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/services"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Stage       int        `json:"stage"`
	Due         *time.Time `json:"due"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	task, err := h.taskService.Create(c.Request.Context(), userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    types.TaskPriority(req.Priority),
		Stage:       types.Stage(req.Stage),
		Due:         req.Due,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "task_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	tasks, err := h.taskService.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "task_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Toggle(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	task, err := h.taskService.Toggle(c.Request.Context(), userID, taskID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "task_toggle_failed", err)
		return
	}
	RespondOK(c, gin.H{"task": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.taskService.Delete(c.Request.Context(), userID, taskID); err != nil {
		RespondError(c, http.StatusNotFound, "task_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
