package service

import (
	"context"

	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/repository"
)

// Metrics is the body of GET /metrics
type Metrics struct {
	Users      int                          `json:"users"`
	Categories int                          `json:"categories"`
	Tasks      int                          `json:"tasks"`
	Articles   map[models.ArticleStatus]int `json:"articles"`
	Pool       *PoolStats                   `json:"pool,omitempty"`
}

// PoolStats is the subset of sql.DBStats worth exposing
type PoolStats struct {
	OpenConnections int    `json:"openConnections"`
	InUse           int    `json:"inUse"`
	Idle            int    `json:"idle"`
	WaitCount       int64  `json:"waitCount"`
	WaitDuration    string `json:"waitDuration"`
}

// statsService is the concrete implementation of StatsService
type statsService struct {
	repos  *repository.Repositories
	health HealthChecker
}

// newStatsService creates a new StatsService. health may be nil.
func newStatsService(repos *repository.Repositories, health HealthChecker) *statsService {
	return &statsService{repos: repos, health: health}
}

// Health pings the database
func (s *statsService) Health(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health.HealthCheck(ctx)
}

// Metrics counts rows per table and reports pool usage
func (s *statsService) Metrics(ctx context.Context) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.Users, err = s.repos.User.Count(ctx); err != nil {
		return nil, err
	}
	if m.Categories, err = s.repos.Category.Count(ctx); err != nil {
		return nil, err
	}
	if m.Tasks, err = s.repos.Task.Count(ctx); err != nil {
		return nil, err
	}
	if m.Articles, err = s.repos.Article.CountByStatus(ctx); err != nil {
		return nil, err
	}
	for status := range models.ValidStatuses {
		if _, ok := m.Articles[status]; !ok {
			m.Articles[status] = 0
		}
	}

	if s.health != nil {
		st := s.health.Stats()
		m.Pool = &PoolStats{
			OpenConnections: st.OpenConnections,
			InUse:           st.InUse,
			Idle:            st.Idle,
			WaitCount:       st.WaitCount,
			WaitDuration:    st.WaitDuration.String(),
		}
	}
	return &m, nil
}
