package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

const todoColumns = `id::text, user_id::text, title, description, completed, priority, due_date, completed_at, created_at, updated_at`

type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

func scanTodo(row pgx.Row) (*entity.TodoItem, error) {
	var t entity.TodoItem
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.Priority,
		&t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.TodoItem) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO todo_items (user_id, title, description, priority, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, completed, created_at
	`, t.UserID, t.Title, t.Description, t.Priority, t.DueDate)
	if err := row.Scan(&t.ID, &t.Completed, &t.CreatedAt); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Get(ctx context.Context, userID, id string) (*entity.TodoItem, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanTodo(r.db.QueryRow(ctx,
		`SELECT `+todoColumns+` FROM todo_items WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *TodoRepository) List(ctx context.Context, userID string, completed *bool, p repository.Page) ([]entity.TodoItem, error) {
	q := `SELECT ` + todoColumns + ` FROM todo_items WHERE user_id = $1`
	args := []any{userID}
	if completed != nil {
		args = append(args, *completed)
		q += ` AND completed = $2`
	}
	q += ` ORDER BY completed ASC, priority DESC, created_at DESC` + pageClause(p)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := make([]entity.TodoItem, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TodoRepository) Update(ctx context.Context, t *entity.TodoItem) error {
	row := r.db.QueryRow(ctx, `
		UPDATE todo_items
		SET title = $1, description = $2, completed = $3, priority = $4, due_date = $5,
		    completed_at = $6, updated_at = now()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`, t.Title, t.Description, t.Completed, t.Priority, t.DueDate, t.CompletedAt, t.ID, t.UserID)
	if err := row.Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM todo_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
