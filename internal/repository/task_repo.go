package repository

import (
	"context"
	"database/sql"

	"github.com/newsroom-cms/api/internal/database"
	"github.com/newsroom-cms/api/internal/models"
)

// taskRepo is the concrete implementation of TaskRepository
type taskRepo struct {
	db *database.DB
}

// NewTaskRepo creates a new task repository
func NewTaskRepo(db *database.DB) TaskRepository {
	return &taskRepo{db: db}
}

// Create inserts a new task
func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (title, description, is_completed, priority, due_date, assigned_to_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.IsCompleted, task.Priority, task.DueDate, task.AssignedToID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	return translate(err)
}

// Update writes every mutable column of the task
func (r *taskRepo) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, is_completed = $4, priority = $5,
			due_date = $6, assigned_to_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.IsCompleted, task.Priority, task.DueDate, task.AssignedToID,
	).Scan(&task.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return translate(err)
}

// Delete removes a task
func (r *taskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
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

// GetByID retrieves a task by ID, including its assignee summary
func (r *taskRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := taskSelect + ` WHERE t.id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id), true)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// List returns tasks matching the filter ordered by id
func (r *taskRepo) List(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	query := taskSelect
	var args []any
	if filter.AssigneeID != nil {
		query += ` WHERE t.assigned_to_id = $1`
		args = append(args, *filter.AssigneeID)
	}
	query += ` ORDER BY t.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows, filter.WithAssignee)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Count returns the total number of tasks
func (r *taskRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	return count, err
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.is_completed, t.priority, t.due_date,
		t.assigned_to_id, t.created_at, t.updated_at, u.name, u.email
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assigned_to_id`

func scanTask(row scanner, withAssignee bool) (*models.Task, error) {
	var (
		task          models.Task
		dueDate       sql.NullTime
		assignedTo    sql.NullInt64
		assigneeName  sql.NullString
		assigneeEmail sql.NullString
	)
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.IsCompleted, &task.Priority, &dueDate,
		&assignedTo, &task.CreatedAt, &task.UpdatedAt, &assigneeName, &assigneeEmail,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if assignedTo.Valid {
		task.AssignedToID = &assignedTo.Int64
	}
	if withAssignee && assigneeName.Valid {
		task.AssignedTo = &models.Assignee{Name: assigneeName.String, Email: assigneeEmail.String}
	}
	return &task, nil
}
