package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/auth"
	"github.com/newsroom-cms/api/internal/cache"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/newsroom-cms/api/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleService defines the article workflow operations
type ArticleService interface {
	ListPublished(ctx context.Context) ([]*models.Article, error)
	GetPublished(ctx context.Context, id int64) (*models.Article, error)
	ListMine(ctx context.Context, actor policy.Actor) ([]*models.Article, error)
	GetMine(ctx context.Context, actor policy.Actor, id int64) (*models.Article, error)
	Create(ctx context.Context, actor policy.Actor, req *models.CreateArticleRequest) (*models.Article, error)
	Update(ctx context.Context, actor policy.Actor, id int64, req *models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, actor policy.Actor, id int64) error
	Review(ctx context.Context, actor policy.Actor, id int64, status models.ArticleStatus) (*models.Article, error)
}

// CategoryService defines category operations
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, actor policy.Actor, req *models.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, actor policy.Actor, id int64, req *models.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, actor policy.Actor, id int64) (*models.Category, error)
	EnsureReserved(ctx context.Context) error
}

// TaskService defines task operations
type TaskService interface {
	List(ctx context.Context, actor policy.Actor) ([]*models.Task, error)
	Get(ctx context.Context, actor policy.Actor, id int64) (*models.Task, error)
	Create(ctx context.Context, actor policy.Actor, req *models.CreateTaskRequest) (*models.Task, error)
	Update(ctx context.Context, actor policy.Actor, id int64, req *models.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, actor policy.Actor, id int64) (*models.Task, error)
	ToggleStatus(ctx context.Context, actor policy.Actor, id int64) (*models.Task, error)
}

// AuthService defines login, registration and self lookup
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	Register(ctx context.Context, actor policy.Actor, req *models.RegisterRequest) (*models.UserSummary, error)
	Me(ctx context.Context, actor policy.Actor) (*models.UserSummary, error)
}

// UserService defines user administration
type UserService interface {
	List(ctx context.Context, actor policy.Actor) ([]models.UserSummary, error)
	Get(ctx context.Context, actor policy.Actor, id int64) (*models.UserSummary, error)
	Update(ctx context.Context, actor policy.Actor, id int64, req *models.UpdateUserRequest) (*models.UserSummary, error)
	Delete(ctx context.Context, actor policy.Actor, id int64) error
}

// StatsService reports health and counters
type StatsService interface {
	Health(ctx context.Context) error
	Metrics(ctx context.Context) (*Metrics, error)
}

// HealthChecker is satisfied by *database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() sql.DBStats
}

// Services holds all service interfaces
type Services struct {
	Article  ArticleService
	Category CategoryService
	Task     TaskService
	Auth     AuthService
	User     UserService
	Stats    StatsService

	// Tokens verifies bearer tokens for the HTTP middleware
	Tokens *auth.TokenManager
}

type options struct {
	cache  cache.ArticleCache
	health HealthChecker
	now    func() time.Time
}

// Option customizes NewServices
type Option func(*options)

// WithCache sets the public article cache
func WithCache(c cache.ArticleCache) Option {
	return func(o *options) { o.cache = c }
}

// WithHealthChecker sets the database ping used by health and metrics
func WithHealthChecker(h HealthChecker) Option {
	return func(o *options) { o.health = h }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, opts ...Option) *Services {
	o := options{cache: cache.Nop{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	validator := validation.NewValidator(cfg.Auth.MinPasswordLength)
	tokens := auth.NewTokenManager(cfg.JWT)

	return &Services{
		Article:  newArticleService(repos, validator, o.cache, o.now, log),
		Category: newCategoryService(repos.Category, validator, o.cache, cfg.Content, log),
		Task:     newTaskService(repos, validator, log),
		Auth:     newAuthService(repos.User, validator, tokens, cfg.Auth, log),
		User:     newUserService(repos.User, validator, cfg.Auth, log),
		Stats:    newStatsService(repos, o.health),
		Tokens:   tokens,
	}
}

// storeErr classifies repository errors for the HTTP layer
func storeErr(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("%s not found", entity)
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("%s already exists", entity)
	case errors.Is(err, repository.ErrReferenced):
		return apperr.Conflict("%s is still referenced", entity)
	}
	return err
}
