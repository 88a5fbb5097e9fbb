package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/mocks"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/newsroom-cms/api/internal/service"
	"github.com/newsroom-cms/api/internal/validation"
	"github.com/rs/zerolog"
)

func benchConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "bench-secret", ExpiresIn: time.Hour},
		Auth:    config.AuthConfig{BcryptCost: 4, MinPasswordLength: 8},
		Content: config.ContentConfig{ReservedCategoryID: 5, ReservedCategoryName: "Other"},
	}
}

// seedArticles fills the mock store with n articles spread over all statuses
func seedArticles(store *mocks.Store, n int) {
	statuses := []models.ArticleStatus{models.StatusDraft, models.StatusReview, models.StatusRejected, models.StatusPublished}
	for i := 0; i < n; i++ {
		store.Articles.Create(context.Background(), &models.Article{
			Title:    fmt.Sprintf("Article %d", i),
			Slug:     fmt.Sprintf("article-%d", i),
			Summary:  "summary",
			Content:  "content",
			Status:   statuses[i%len(statuses)],
			AuthorID: int64(i%10 + 1),
		})
	}
}

// BenchmarkArticleCreate benchmarks the full create path: validation,
// status policy, sanitizing and slug generation
func BenchmarkArticleCreate(b *testing.B) {
	repos, _ := mocks.NewRepositories()
	services := service.NewServices(repos, benchConfig(), zerolog.Nop())
	writer := policy.Actor{UserID: 2, Role: models.RoleWriter}
	req := &models.CreateArticleRequest{
		Summary: "<p>Short <b>summary</b></p>",
		Content: strings.Repeat("<p>Paragraph with <a href=\"https://example.com\">a link</a>.</p>", 50),
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req.Title = fmt.Sprintf("Benchmark Headline %d", i)
		if _, err := services.Article.Create(context.Background(), writer, req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkListPublished benchmarks the public listing without a cache
func BenchmarkListPublished(b *testing.B) {
	repos, store := mocks.NewRepositories()
	seedArticles(store, 1000)
	services := service.NewServices(repos, benchConfig(), zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		services.Article.ListPublished(context.Background())
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkListPublishedCached benchmarks the public listing served from the cache
func BenchmarkListPublishedCached(b *testing.B) {
	repos, store := mocks.NewRepositories()
	seedArticles(store, 1000)
	services := service.NewServices(repos, benchConfig(), zerolog.Nop(),
		service.WithCache(mocks.NewMockArticleCache()))
	services.Article.ListPublished(context.Background())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		services.Article.ListPublished(context.Background())
	}
}

// BenchmarkCategoryDelete benchmarks reassigning 100 articles per delete
func BenchmarkCategoryDelete(b *testing.B) {
	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		repos, store := mocks.NewRepositories()
		services := service.NewServices(repos, benchConfig(), zerolog.Nop())
		services.Category.EnsureReserved(context.Background())
		category := &models.Category{Name: "Doomed"}
		store.Categories.Create(context.Background(), category)
		seedArticles(store, 100)
		articles, _ := store.Articles.List(context.Background(), repository.ArticleFilter{})
		for _, a := range articles {
			a.CategoryID = &category.ID
			store.Articles.Update(context.Background(), a)
		}
		b.StartTimer()

		if _, err := services.Category.Delete(context.Background(), admin, category.ID); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPolicy benchmarks a single rule evaluation
func BenchmarkPolicy(b *testing.B) {
	writer := policy.Actor{UserID: 2, Role: models.RoleWriter}
	ref := policy.ArticleRef{AuthorID: 2, Status: models.StatusReview}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		policy.AuthorizeArticle(policy.UpdateArticle, writer, ref)
	}
}

// BenchmarkPolicyParallel benchmarks rule evaluation under contention
func BenchmarkPolicyParallel(b *testing.B) {
	admin := policy.Actor{UserID: 1, Role: models.RoleAdmin}
	ref := policy.ArticleRef{AuthorID: 2, Status: models.StatusPublished}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			policy.AuthorizeArticle(policy.DeleteArticle, admin, ref)
		}
	})
}

// BenchmarkValidation benchmarks task request validation
func BenchmarkValidation(b *testing.B) {
	validator := validation.NewValidator(8)
	priority := 2
	assignee := int64(3)
	req := &models.CreateTaskRequest{
		Title:        "Proofread issue 12",
		Description:  "Check every headline",
		Priority:     &priority,
		AssignedToID: &assignee,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validator.ValidateTaskCreate(req)
	}
}

// BenchmarkMakeSlug benchmarks slug generation for long titles
func BenchmarkMakeSlug(b *testing.B) {
	title := strings.Repeat("Über lange Schlagzeile ", 10)
	now := time.Now()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		service.MakeSlug(title, now)
	}
}
