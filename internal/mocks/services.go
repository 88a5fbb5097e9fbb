package mocks

import (
	"context"
	"database/sql"

	"github.com/newsroom-cms/api/internal/cache"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/service"
)

// MockHealthChecker is a mock implementation of service.HealthChecker
type MockHealthChecker struct {
	PingError error
	PoolStats sql.DBStats
	Pings     int
}

// Verify interface compliance
var _ service.HealthChecker = (*MockHealthChecker)(nil)

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.Pings++
	return m.PingError
}

func (m *MockHealthChecker) Stats() sql.DBStats {
	return m.PoolStats
}

// MockArticleCache is an in-memory cache.ArticleCache with the same
// generation semantics as the Redis implementation
type MockArticleCache struct {
	Gen           int64
	Lists         map[int64][]*models.Article
	Articles      map[int64]map[int64]*models.Article
	Invalidations int

	// Unavailable makes Generation report the cache as unusable
	Unavailable bool
}

// Verify interface compliance
var _ cache.ArticleCache = (*MockArticleCache)(nil)

func NewMockArticleCache() *MockArticleCache {
	return &MockArticleCache{
		Lists:    make(map[int64][]*models.Article),
		Articles: make(map[int64]map[int64]*models.Article),
	}
}

func (m *MockArticleCache) Generation(ctx context.Context) (int64, bool) {
	return m.Gen, !m.Unavailable
}

func (m *MockArticleCache) GetList(ctx context.Context, gen int64) ([]*models.Article, bool) {
	list, ok := m.Lists[gen]
	return list, ok
}

func (m *MockArticleCache) SetList(ctx context.Context, gen int64, articles []*models.Article) {
	m.Lists[gen] = articles
}

func (m *MockArticleCache) Get(ctx context.Context, gen, id int64) (*models.Article, bool) {
	a, ok := m.Articles[gen][id]
	return a, ok
}

func (m *MockArticleCache) Set(ctx context.Context, gen int64, article *models.Article) {
	if m.Articles[gen] == nil {
		m.Articles[gen] = make(map[int64]*models.Article)
	}
	m.Articles[gen][article.ID] = article
}

func (m *MockArticleCache) Invalidate(ctx context.Context) {
	m.Gen++
	m.Invalidations++
}

// Current returns the cached article of the current generation
func (m *MockArticleCache) Current(id int64) (*models.Article, bool) {
	a, ok := m.Articles[m.Gen][id]
	return a, ok
}

// CurrentList returns the cached listing of the current generation
func (m *MockArticleCache) CurrentList() ([]*models.Article, bool) {
	list, ok := m.Lists[m.Gen]
	return list, ok
}
