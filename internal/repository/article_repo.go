package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/newsroom-cms/api/internal/database"
	"github.com/newsroom-cms/api/internal/models"
)

const articleColumns = `id, title, slug, summary, content, thumbnail, status, published_at,
	author_id, category_id, created_at, updated_at`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article and fills in its generated fields. A zero
// CreatedAt is left to the database.
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (title, slug, summary, content, thumbnail, status, published_at, author_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()), COALESCE($10, NOW()))
		RETURNING id, created_at, updated_at
	`
	var createdAt sql.NullTime
	if !article.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: article.CreatedAt, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		article.Title, article.Slug, article.Summary, article.Content, article.Thumbnail,
		article.Status, article.PublishedAt, article.AuthorID, article.CategoryID, createdAt,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	return translate(err)
}

// Update writes every mutable column of the article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET title = $2, slug = $3, summary = $4, content = $5, thumbnail = $6,
			status = $7, published_at = $8, category_id = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Summary, article.Content, article.Thumbnail,
		article.Status, article.PublishedAt, article.CategoryID,
	).Scan(&article.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return translate(err)
}

// Delete removes an article
func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// List returns articles matching the filter, newest first
func (r *articleRepo) List(ctx context.Context, filter ArticleFilter) ([]*models.Article, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		where = append(where, fmt.Sprintf("author_id = $%d", len(args)))
	}

	query := `SELECT ` + articleColumns + ` FROM articles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// CountByStatus returns the number of articles per status
func (r *articleRepo) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM articles GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ArticleStatus]int)
	for rows.Next() {
		var status models.ArticleStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanArticle(row scanner) (*models.Article, error) {
	var (
		article     models.Article
		thumbnail   sql.NullString
		publishedAt sql.NullTime
		categoryID  sql.NullInt64
	)
	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &article.Summary, &article.Content,
		&thumbnail, &article.Status, &publishedAt, &article.AuthorID, &categoryID,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if thumbnail.Valid {
		article.Thumbnail = &thumbnail.String
	}
	if publishedAt.Valid {
		article.PublishedAt = &publishedAt.Time
	}
	if categoryID.Valid {
		article.CategoryID = &categoryID.Int64
	}
	return &article, nil
}
