package service

import (
	"context"
	"strings"

	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/cache"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/newsroom-cms/api/internal/validation"
	"github.com/rs/zerolog"
)

// categoryService is the concrete implementation of CategoryService
type categoryService struct {
	categories repository.CategoryRepository
	validator  *validation.Validator
	cache      cache.ArticleCache
	reserved   config.ContentConfig
	log        zerolog.Logger
}

// newCategoryService creates a new CategoryService
func newCategoryService(categories repository.CategoryRepository, validator *validation.Validator, c cache.ArticleCache, reserved config.ContentConfig, log zerolog.Logger) *categoryService {
	return &categoryService{
		categories: categories,
		validator:  validator,
		cache:      c,
		reserved:   reserved,
		log:        log.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, actor policy.Actor, req *models.CategoryRequest) (*models.Category, error) {
	if err := policy.Authorize(policy.ManageCategories, actor); err != nil {
		return nil, err
	}
	if err := validation.Err(s.validator.ValidateCategory(req)); err != nil {
		return nil, err
	}

	category := &models.Category{Name: strings.TrimSpace(req.Name)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, storeErr(err, "category")
	}

	s.log.Info().Int64("category_id", category.ID).Str("name", category.Name).Msg("Category created")
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, actor policy.Actor, id int64, req *models.CategoryRequest) (*models.Category, error) {
	if err := policy.Authorize(policy.ManageCategories, actor); err != nil {
		return nil, err
	}
	if err := validation.Err(s.validator.ValidateCategory(req)); err != nil {
		return nil, err
	}

	category := &models.Category{ID: id, Name: strings.TrimSpace(req.Name)}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, storeErr(err, "category")
	}
	return category, nil
}

// Delete removes a category after moving its articles to the reserved category
func (s *categoryService) Delete(ctx context.Context, actor policy.Actor, id int64) (*models.Category, error) {
	if err := policy.Authorize(policy.ManageCategories, actor); err != nil {
		return nil, err
	}
	if id == s.reserved.ReservedCategoryID {
		return nil, apperr.Validation("the %q category cannot be deleted", s.reserved.ReservedCategoryName)
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	moved, err := s.categories.DeleteAndReassign(ctx, id, s.reserved.ReservedCategoryID)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	s.cache.Invalidate(ctx)

	s.log.Info().
		Int64("category_id", id).
		Int64("reassigned_to", s.reserved.ReservedCategoryID).
		Int64("articles_moved", moved).
		Msg("Category deleted")

	return category, nil
}

// EnsureReserved makes sure the fallback category exists
func (s *categoryService) EnsureReserved(ctx context.Context) error {
	return s.categories.EnsureReserved(ctx, s.reserved.ReservedCategoryID, s.reserved.ReservedCategoryName)
}
