package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hieudev/todo-api/internal/models"
)

// ErrNotFound is returned when no todo matches the requested identifier
var ErrNotFound = errors.New("todo not found")

// ListOptions controls pagination and sorting for list and search queries.
// SortColumn must be one of the allow-listed columns; an empty value means no
// ordering is applied.
type ListOptions struct {
	Page       int
	Size       int
	SortColumn string
	SortDesc   bool
}

// TodoStore defines the persistence contract consumed by the todo service.
// It enables mock implementations for tests alongside the SQL-backed repository.
type TodoStore interface {
	List(ctx context.Context, opts ListOptions) ([]*models.Todo, int64, error)
	Search(ctx context.Context, keyword *string, status *models.Status, opts ListOptions) ([]*models.Todo, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Ensure concrete types implement the interface
var (
	_ TodoStore = (*TodoRepository)(nil)
	_ TodoStore = (*InMemoryTodoStore)(nil)
)
