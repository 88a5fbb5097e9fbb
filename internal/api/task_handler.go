package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/service"
	"github.com/rs/zerolog"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	tasks service.TaskService
	log   zerolog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(services *service.Services, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks: services.Task,
		log:   log.With().Str("handler", "task").Logger(),
	}
}

// List handles GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update handles PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.UpdateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleStatus handles PATCH /api/tasks/:id/toggle-status
func (h *TaskHandler) ToggleStatus(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	task, err := h.tasks.ToggleStatus(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	task, err := h.tasks.Delete(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
