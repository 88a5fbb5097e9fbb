package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.UserRepository     = (*MockUserRepository)(nil)
	_ repository.ArticleRepository  = (*MockArticleRepository)(nil)
	_ repository.CategoryRepository = (*MockCategoryRepository)(nil)
	_ repository.TaskRepository     = (*MockTaskRepository)(nil)
)

// NewRepositories wires in-memory repositories that share foreign keys the
// way the schema does
func NewRepositories() (*repository.Repositories, *Store) {
	store := &Store{
		Users:      NewMockUserRepository(),
		Articles:   NewMockArticleRepository(),
		Categories: NewMockCategoryRepository(),
		Tasks:      NewMockTaskRepository(),
	}
	store.Users.Articles = store.Articles
	store.Users.Tasks = store.Tasks
	store.Categories.Articles = store.Articles
	store.Tasks.Users = store.Users

	return &repository.Repositories{
		User:     store.Users,
		Article:  store.Articles,
		Category: store.Categories,
		Task:     store.Tasks,
	}, store
}

// Store exposes the concrete mocks behind a Repositories value
type Store struct {
	Users      *MockUserRepository
	Articles   *MockArticleRepository
	Categories *MockCategoryRepository
	Tasks      *MockTaskRepository
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[int64]*models.User
	InsertError error
	NextID      int64

	// Articles and Tasks, when set, emulate the schema's foreign keys
	Articles *MockArticleRepository
	Tasks    *MockTaskRepository
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[int64]*models.User),
		NextID: 1,
	}
}

func (m *MockUserRepository) emailTaken(email string, except int64) bool {
	for _, u := range m.Users {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.emailTaken(user.Email, 0) {
		return repository.ErrDuplicate
	}
	now := time.Now()
	user.ID = m.NextID
	user.CreatedAt, user.UpdatedAt = now, now
	m.NextID++
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.Users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return repository.ErrDuplicate
	}
	user.UpdatedAt = time.Now()
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Users[id]; !ok {
		return repository.ErrNotFound
	}
	if m.Articles != nil {
		for _, a := range m.Articles.Articles {
			if a.AuthorID == id {
				return repository.ErrReferenced
			}
		}
	}
	if m.Tasks != nil {
		for _, t := range m.Tasks.Tasks {
			if t.AssignedToID != nil && *t.AssignedToID == id {
				t.AssignedToID = nil
			}
		}
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, exists := m.Users[id]
	return exists, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailTaken(email, 0), nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		c := *u
		users = append(users, &c)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	Articles    map[int64]*models.Article
	InsertError error
	NextID      int64
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[int64]*models.Article),
		NextID:   1,
	}
}

func (m *MockArticleRepository) slugTaken(slug string, except int64) bool {
	for _, a := range m.Articles {
		if a.ID != except && a.Slug == slug {
			return true
		}
	}
	return false
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.slugTaken(article.Slug, 0) {
		return repository.ErrDuplicate
	}
	article.ID = m.NextID
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	article.UpdatedAt = article.CreatedAt
	m.NextID++
	stored := *article
	m.Articles[article.ID] = &stored
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if _, ok := m.Articles[article.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.slugTaken(article.Slug, article.ID) {
		return repository.ErrDuplicate
	}
	article.UpdatedAt = time.Now()
	stored := *article
	m.Articles[article.ID] = &stored
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Articles, id)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter repository.ArticleFilter) ([]*models.Article, error) {
	articles := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.AuthorID != nil && a.AuthorID != *filter.AuthorID {
			continue
		}
		c := *a
		articles = append(articles, &c)
	}
	// newest first, like the SQL implementation
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID > articles[j].ID })
	return articles, nil
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	counts := make(map[models.ArticleStatus]int)
	for _, a := range m.Articles {
		counts[a.Status]++
	}
	return counts, nil
}

// ByCategory returns the ids of the articles filed under categoryID
func (m *MockArticleRepository) ByCategory(categoryID int64) []int64 {
	var ids []int64
	for _, a := range m.Articles {
		if a.CategoryID != nil && *a.CategoryID == categoryID {
			ids = append(ids, a.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories  map[int64]*models.Category
	DeleteError error
	NextID      int64

	// Articles, when set, receives reassignments on delete
	Articles *MockArticleRepository
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int64]*models.Category),
		NextID:     1,
	}
}

func (m *MockCategoryRepository) nameTaken(name string, except int64) bool {
	for _, c := range m.Categories {
		if c.ID != except && c.Name == name {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if m.nameTaken(category.Name, 0) {
		return repository.ErrDuplicate
	}
	for m.Categories[m.NextID] != nil {
		m.NextID++
	}
	category.ID = m.NextID
	m.NextID++
	stored := *category
	m.Categories[category.ID] = &stored
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if _, ok := m.Categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return repository.ErrDuplicate
	}
	stored := *category
	m.Categories[category.ID] = &stored
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, exists := m.Categories[id]
	return exists, nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		cp := *c
		categories = append(categories, &cp)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (m *MockCategoryRepository) DeleteAndReassign(ctx context.Context, id, fallbackID int64) (int64, error) {
	if m.DeleteError != nil {
		return 0, m.DeleteError
	}
	if _, ok := m.Categories[id]; !ok {
		return 0, repository.ErrNotFound
	}
	var moved int64
	if m.Articles != nil {
		for _, a := range m.Articles.Articles {
			if a.CategoryID != nil && *a.CategoryID == id {
				fb := fallbackID
				a.CategoryID = &fb
				moved++
			}
		}
	}
	delete(m.Categories, id)
	return moved, nil
}

func (m *MockCategoryRepository) EnsureReserved(ctx context.Context, id int64, name string) error {
	if _, ok := m.Categories[id]; ok {
		return nil
	}
	m.Categories[id] = &models.Category{ID: id, Name: name}
	if m.NextID <= id {
		m.NextID = id + 1
	}
	return nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	return len(m.Categories), nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	Tasks  map[int64]*models.Task
	NextID int64

	// Users, when set, provides assignee summaries
	Users *MockUserRepository
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:  make(map[int64]*models.Task),
		NextID: 1,
	}
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.ID = m.NextID
	task.CreatedAt, task.UpdatedAt = now, now
	m.NextID++
	stored := *task
	stored.AssignedTo = nil
	m.Tasks[task.ID] = &stored
	return nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if _, ok := m.Tasks[task.ID]; !ok {
		return repository.ErrNotFound
	}
	task.UpdatedAt = time.Now()
	stored := *task
	stored.AssignedTo = nil
	m.Tasks[task.ID] = &stored
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Tasks, id)
	return nil
}

func (m *MockTaskRepository) withAssignee(t *models.Task) {
	if m.Users == nil || t.AssignedToID == nil {
		return
	}
	if u, ok := m.Users.Users[*t.AssignedToID]; ok {
		t.AssignedTo = &models.Assignee{Name: u.Name, Email: u.Email}
	}
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	t, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	c := *t
	m.withAssignee(&c)
	return &c, nil
}

func (m *MockTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	for _, t := range m.Tasks {
		if filter.AssigneeID != nil && (t.AssignedToID == nil || *t.AssignedToID != *filter.AssigneeID) {
			continue
		}
		c := *t
		if filter.WithAssignee {
			m.withAssignee(&c)
		}
		tasks = append(tasks, &c)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *MockTaskRepository) Count(ctx context.Context) (int, error) {
	return len(m.Tasks), nil
}
