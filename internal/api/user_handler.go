package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles login, registration and profile endpoints
type AuthHandler struct {
	auth service.AuthService
	log  zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth: services.Auth,
		log:  log.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.auth.Me(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserHandler handles user administration endpoints
type UserHandler struct {
	users service.UserService
	log   zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		users: services.User,
		log:   log.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	users, err := h.users.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
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
	user, err := h.users.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
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
	var req models.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
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
	if err := h.users.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
