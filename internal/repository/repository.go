package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/newsroom-cms/api/internal/database"
	"github.com/newsroom-cms/api/internal/models"
)

var (
	// ErrNotFound is returned by mutations whose target row does not exist.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("row not found")
	// ErrDuplicate is returned when a unique constraint would be violated
	ErrDuplicate = errors.New("duplicate value violates unique constraint")
	// ErrReferenced is returned when a row is still referenced by another table
	ErrReferenced = errors.New("row is still referenced")
)

// ArticleFilter narrows article listings. Nil fields do not filter.
type ArticleFilter struct {
	Status   *models.ArticleStatus
	AuthorID *int64
}

// TaskFilter narrows task listings
type TaskFilter struct {
	AssigneeID   *int64
	WithAssignee bool
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]*models.Article, error)
	CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*models.Category, error)
	// DeleteAndReassign moves every article of category id to fallbackID and
	// deletes the category, atomically. It returns the number of moved articles.
	DeleteAndReassign(ctx context.Context, id, fallbackID int64) (int64, error)
	EnsureReserved(ctx context.Context, id int64, name string) error
	Count(ctx context.Context) (int, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Article  ArticleRepository
	Category CategoryRepository
	Task     TaskRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepo(db),
		Article:  NewArticleRepo(db),
		Category: NewCategoryRepo(db),
		Task:     NewTaskRepo(db),
	}
}

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors onto the repository sentinels
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrReferenced, err)
		}
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}
