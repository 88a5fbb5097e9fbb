package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/service"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	articles service.ArticleService
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles: services.Article,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// ListPublished handles GET /api/articles
func (h *ArticleHandler) ListPublished(c *gin.Context) {
	articles, err := h.articles.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetPublished handles GET /api/articles/:id
func (h *ArticleHandler) GetPublished(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	article, err := h.articles.GetPublished(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListMine handles GET /api/articles/me
func (h *ArticleHandler) ListMine(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	articles, err := h.articles.ListMine(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetMine handles GET /api/articles/me/:id
func (h *ArticleHandler) GetMine(c *gin.Context) {
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
	article, err := h.articles.GetMine(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /api/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.CreateArticleRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	article, err := h.articles.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /api/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
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
	var req models.UpdateArticleRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	article, err := h.articles.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
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
	if err := h.articles.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}

// Review handles PATCH /api/articles/:id/review
func (h *ArticleHandler) Review(c *gin.Context) {
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
	var req models.ReviewRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	article, err := h.articles.Review(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}
