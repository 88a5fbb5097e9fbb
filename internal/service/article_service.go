package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/cache"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/newsroom-cms/api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	validator  *validation.Validator
	cache      cache.ArticleCache
	sanitizer  *bluemonday.Policy // content is editor HTML; title and summary are plain text
	now        func() time.Time
	log        zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repos *repository.Repositories, validator *validation.Validator, c cache.ArticleCache, now func() time.Time, log zerolog.Logger) *articleService {
	return &articleService{
		articles:   repos.Article,
		categories: repos.Category,
		validator:  validator,
		cache:      c,
		sanitizer:  bluemonday.UGCPolicy(),
		now:        now,
		log:        log.With().Str("service", "article").Logger(),
	}
}

// MakeSlug derives the unique slug of an article created or retitled at t
func MakeSlug(title string, t time.Time) string {
	base := slug.Make(strings.ReplaceAll(title, "_", " "))
	if !validation.IsValidSlug(base) {
		base = "article"
	}
	return fmt.Sprintf("%s-%d", base, t.UnixMilli())
}

// ListPublished returns every PUBLISHED article
func (s *articleService) ListPublished(ctx context.Context) ([]*models.Article, error) {
	gen, cacheable := s.cache.Generation(ctx)
	if cacheable {
		if articles, ok := s.cache.GetList(ctx, gen); ok {
			return articles, nil
		}
	}

	status := models.StatusPublished
	articles, err := s.articles.List(ctx, repository.ArticleFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.SetList(ctx, gen, articles)
	}
	return articles, nil
}

// GetPublished returns a PUBLISHED article. Anything else is reported as missing.
func (s *articleService) GetPublished(ctx context.Context, id int64) (*models.Article, error) {
	gen, cacheable := s.cache.Generation(ctx)
	if cacheable {
		if article, ok := s.cache.Get(ctx, gen, id); ok {
			return article, nil
		}
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil || article.Status != models.StatusPublished {
		return nil, apperr.NotFound("article not found")
	}

	if cacheable {
		s.cache.Set(ctx, gen, article)
	}
	return article, nil
}

// ListMine returns all articles for an admin and the actor's own articles for a writer
func (s *articleService) ListMine(ctx context.Context, actor policy.Actor) ([]*models.Article, error) {
	if err := policy.AuthorizeArticle(policy.ListOwnArticles, actor, policy.ArticleRef{}); err != nil {
		return nil, err
	}

	var filter repository.ArticleFilter
	if !policy.Can(policy.ListAllArticles, actor) {
		filter.AuthorID = &actor.UserID
	}
	return s.articles.List(ctx, filter)
}

// GetMine returns a single article the actor may see
func (s *articleService) GetMine(ctx context.Context, actor policy.Actor, id int64) (*models.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeArticle(policy.ViewArticle, actor, policy.RefOf(article)); err != nil {
		return nil, err
	}
	return article, nil
}

// Create stores a new article authored by actor
func (s *articleService) Create(ctx context.Context, actor policy.Actor, req *models.CreateArticleRequest) (*models.Article, error) {
	if err := validation.Err(s.validator.ValidateArticleCreate(req)); err != nil {
		return nil, err
	}

	status, err := policy.InitialStatus(actor, req.Status)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	now := s.now()
	article := &models.Article{
		Title:      req.Title,
		Slug:       MakeSlug(req.Title, now),
		Summary:    req.Summary,
		Content:    s.sanitizer.Sanitize(req.Content),
		Thumbnail:  emptyToNil(req.Thumbnail),
		Status:     status,
		AuthorID:   actor.UserID,
		CategoryID: req.CategoryID,
		CreatedAt:  now,
	}
	policy.MarkPublished(article, now)

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, storeErr(err, "article")
	}

	if article.Status == models.StatusPublished {
		s.cache.Invalidate(ctx)
	}

	s.log.Info().
		Int64("article_id", article.ID).
		Int64("author_id", article.AuthorID).
		Str("status", string(article.Status)).
		Msg("Article created")

	return article, nil
}

// Update applies the supplied fields to an article the actor may edit
func (s *articleService) Update(ctx context.Context, actor policy.Actor, id int64, req *models.UpdateArticleRequest) (*models.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeArticle(policy.UpdateArticle, actor, policy.RefOf(article)); err != nil {
		return nil, err
	}
	if err := validation.Err(s.validator.ValidateArticleUpdate(req)); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := policy.CheckStatus(actor, *req.Status); err != nil {
			return nil, err
		}
	}
	if req.CategoryID.Set {
		if err := s.checkCategory(ctx, req.CategoryID.Value); err != nil {
			return nil, err
		}
	}

	now := s.now()
	if req.Title != nil && *req.Title != article.Title {
		article.Title = *req.Title
		article.Slug = MakeSlug(article.Title, now)
	}
	if req.Summary != nil {
		article.Summary = *req.Summary
	}
	if req.Content != nil {
		article.Content = s.sanitizer.Sanitize(*req.Content)
	}
	if req.Thumbnail != nil {
		article.Thumbnail = emptyToNil(req.Thumbnail)
	}
	if req.CategoryID.Set {
		article.CategoryID = req.CategoryID.Value
	}
	if req.Status != nil {
		article.Status = *req.Status
	}
	policy.MarkPublished(article, now)

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, storeErr(err, "article")
	}
	s.cache.Invalidate(ctx)

	s.log.Info().
		Int64("article_id", article.ID).
		Int64("actor_id", actor.UserID).
		Str("status", string(article.Status)).
		Msg("Article updated")

	return article, nil
}

// Delete removes an article the actor may delete
func (s *articleService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	article, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeArticle(policy.DeleteArticle, actor, policy.RefOf(article)); err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		return storeErr(err, "article")
	}
	s.cache.Invalidate(ctx)

	s.log.Info().Int64("article_id", id).Int64("actor_id", actor.UserID).Msg("Article deleted")
	return nil
}

// Review publishes or rejects an article
func (s *articleService) Review(ctx context.Context, actor policy.Actor, id int64, status models.ArticleStatus) (*models.Article, error) {
	if err := policy.AuthorizeArticle(policy.ReviewArticle, actor, policy.ArticleRef{}); err != nil {
		return nil, err
	}

	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ApplyReview(article, status, s.now()); err != nil {
		return nil, err
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, storeErr(err, "article")
	}
	s.cache.Invalidate(ctx)

	s.log.Info().
		Int64("article_id", article.ID).
		Int64("reviewer_id", actor.UserID).
		Str("status", string(article.Status)).
		Msg("Article reviewed")

	return article, nil
}

func (s *articleService) load(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, apperr.NotFound("article not found")
	}
	return article, nil
}

func (s *articleService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	exists, err := s.categories.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Validation("category %d does not exist", *id)
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
