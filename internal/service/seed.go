package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/newsroom-cms/api/internal/auth"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/rs/zerolog"
)

// SeedPassword is the password of the seeded accounts
const SeedPassword = "password"

// Seed fills an empty database with demo accounts, categories, articles and
// tasks. It does nothing and returns false when any user exists.
func Seed(ctx context.Context, repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) (bool, error) {
	log = log.With().Str("component", "seed").Logger()

	count, err := repos.User.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		log.Info().Int("users", count).Msg("Database already populated, skipping seed")
		return false, nil
	}

	hash, err := auth.HashPassword(SeedPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return false, err
	}

	admin := &models.User{Name: "Admin", Email: "admin@techaxis.com", PasswordHash: hash, Role: models.RoleAdmin}
	writer := &models.User{Name: "Writer", Email: "writer@techaxis.com", PasswordHash: hash, Role: models.RoleWriter}
	for _, u := range []*models.User{admin, writer} {
		if err := repos.User.Create(ctx, u); err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	if err := repos.Category.EnsureReserved(ctx, cfg.Content.ReservedCategoryID, cfg.Content.ReservedCategoryName); err != nil {
		return false, fmt.Errorf("seed reserved category: %w", err)
	}
	categories := make(map[string]int64)
	for _, name := range []string{"Product Review", "Hardware", "Software", "AI"} {
		c := &models.Category{Name: name}
		err := repos.Category.Create(ctx, c)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("seed category %s: %w", name, err)
		}
		categories[name] = c.ID
	}

	now := time.Now()
	articles := []*models.Article{
		{
			Title:   "First Article",
			Summary: "Summary of the first article.",
			Content: "This is the content of the first article.",
			Status:  models.StatusPublished,
		},
		{
			Title:   "Second Article",
			Summary: "Summary of the second article.",
			Content: "This is the content of the second article.",
			Status:  models.StatusDraft,
		},
	}
	articleCategories := []string{"Software", "Hardware"}
	for i, a := range articles {
		created := now.Add(time.Duration(i) * time.Millisecond)
		a.Slug = MakeSlug(a.Title, created)
		a.AuthorID = writer.ID
		a.CreatedAt = created
		if id, ok := categories[articleCategories[i]]; ok {
			a.CategoryID = &id
		}
		policy.MarkPublished(a, created)
		if err := repos.Article.Create(ctx, a); err != nil {
			return false, fmt.Errorf("seed article %q: %w", a.Title, err)
		}
	}

	tasks := []*models.Task{
		{
			Title:        "Review First Article",
			Description:  "Review the first article for publication.",
			AssignedToID: &admin.ID,
		},
		{
			Title:        "Edit Second Article",
			Description:  "Edit the second article before submission.",
			AssignedToID: &writer.ID,
		},
	}
	for _, t := range tasks {
		if err := repos.Task.Create(ctx, t); err != nil {
			return false, fmt.Errorf("seed task %q: %w", t.Title, err)
		}
	}

	log.Info().
		Int("users", 2).
		Int("categories", len(categories)+1).
		Int("articles", len(articles)).
		Int("tasks", len(tasks)).
		Msg("Database seeded")
	return true, nil
}
