package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/newsroom-cms/api/internal/database"
	"github.com/newsroom-cms/api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// Create inserts a new category
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", category.Name,
	).Scan(&category.ID)
	return translate(err)
}

// Update renames a category
func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx, "UPDATE categories SET name = $2 WHERE id = $1", category.ID, category.Name)
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

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE id = $1", id).
		Scan(&category.ID, &category.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Exists checks if a category with the given ID exists
func (r *categoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// List returns all categories ordered by id
func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

// DeleteAndReassign moves the category's articles to fallbackID and deletes
// the category in one transaction
func (r *categoryRepo) DeleteAndReassign(ctx context.Context, id, fallbackID int64) (int64, error) {
	var moved int64

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// Lock the row so a concurrent delete of the same category waits for us
		var locked int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM categories WHERE id = $1 FOR UPDATE", id).Scan(&locked)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE articles SET category_id = $1, updated_at = NOW() WHERE category_id = $2",
			fallbackID, id,
		)
		if err != nil {
			return translate(err)
		}
		if moved, err = res.RowsAffected(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id); err != nil {
			return translate(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// EnsureReserved creates the reserved category when it is missing and keeps
// the id sequence ahead of it
func (r *categoryRepo) EnsureReserved(ctx context.Context, id int64, name string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING", id, name,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			SELECT setval(pg_get_serial_sequence('categories', 'id'),
				GREATEST((SELECT MAX(id) FROM categories), 1))
		`); err != nil {
			return err
		}

		var exists bool
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("reserved category %d could not be created: name %q is used by another category", id, name)
		}
		return nil
	})
}

// Count returns the total number of categories
func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	return count, err
}
