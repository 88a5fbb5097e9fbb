package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/service"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categories service.CategoryService
	log        zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: services.Category,
		log:        log.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Get handles GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	category, err := h.categories.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update handles PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
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
	var req models.CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	category, err := h.categories.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/categories/:id and returns the deleted row
func (h *CategoryHandler) Delete(c *gin.Context) {
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
	category, err := h.categories.Delete(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}
