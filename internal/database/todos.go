package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hieudev/todo-api/internal/models"
)

// sortColumns is the fixed allow-list of sortable columns. Requests are only
// ever matched against this map, never interpolated into SQL directly.
var sortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"status":      "status",
}

// TodoRepository handles todo database operations
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = "id, title, description, status, created_at, last_updated_at, due_at"

// orderClause builds the ORDER BY fragment for the given options. Columns
// outside the allow-list produce no ordering at all.
func orderClause(opts ListOptions) string {
	column, ok := sortColumns[opts.SortColumn]
	if !ok {
		return ""
	}
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// List retrieves a page of todos and the total count across all pages
func (r *TodoRepository) List(ctx context.Context, opts ListOptions) ([]*models.Todo, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	query := "SELECT " + todoColumns + " FROM todos" + orderClause(opts) +
		" LIMIT $1 OFFSET $2"

	rows, err := r.db.QueryContext(ctx, query, opts.Size, opts.Page*opts.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// Search retrieves a page of todos matching the given filters. A non-nil
// keyword matches case-insensitively against title or description; a non-nil
// status is an exact match. Both filters combine with AND semantics.
func (r *TodoRepository) Search(ctx context.Context, keyword *string, status *models.Status, opts ListOptions) ([]*models.Todo, int64, error) {
	where := ` WHERE ($1::text IS NULL OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		AND ($2::text IS NULL OR status = $2)`

	var keywordArg, statusArg sql.NullString
	if keyword != nil {
		keywordArg = sql.NullString{String: *keyword, Valid: true}
	}
	if status != nil {
		statusArg = sql.NullString{String: string(*status), Valid: true}
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM todos" + where
	if err := r.db.QueryRowContext(ctx, countQuery, keywordArg, statusArg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	query := "SELECT " + todoColumns + " FROM todos" + where + orderClause(opts) +
		" LIMIT $3 OFFSET $4"

	rows, err := r.db.QueryContext(ctx, query, keywordArg, statusArg, opts.Size, opts.Page*opts.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search todos: %w", err)
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// GetByID retrieves a todo by ID
func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos WHERE id = $1"

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// Create inserts a new todo, populating both timestamps
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (id, title, description, status, created_at, last_updated_at, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.LastUpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.Title,
		nullString(todo.Description),
		todo.Status,
		todo.CreatedAt,
		todo.LastUpdatedAt,
		nullTime(todo.DueAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// Update rewrites an existing todo's mutable fields and refreshes
// last_updated_at; created_at is never touched.
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, description = $3, status = $4, last_updated_at = $5, due_at = $6
		WHERE id = $1
	`

	todo.LastUpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.Title,
		nullString(todo.Description),
		todo.Status,
		todo.LastUpdatedAt,
		nullTime(todo.DueAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a todo by ID
func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ExistsByID reports whether a todo with the given ID exists
func (r *TodoRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM todos WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check todo existence: %w", err)
	}
	return exists, nil
}

// Count returns the total number of todos
func (r *TodoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	todo := &models.Todo{}
	var description sql.NullString
	var dueAt sql.NullTime

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&todo.Status,
		&todo.CreatedAt,
		&todo.LastUpdatedAt,
		&dueAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		todo.Description = &description.String
	}
	if dueAt.Valid {
		t := dueAt.Time
		todo.DueAt = &t
	}

	return todo, nil
}

func scanTodos(rows *sql.Rows) ([]*models.Todo, error) {
	var todos []*models.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
