package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hieudev/todo-api/internal/database"
	"github.com/hieudev/todo-api/internal/models"
)

// TodoDTO is the externally facing shape of a todo, decoupled from storage
type TodoDTO struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"todo"`
	Description   *string       `json:"description"`
	Status        models.Status `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	LastUpdatedAt time.Time     `json:"lastUpdatedAt"`
	DueAt         *time.Time    `json:"dueAt"`
}

// CreateTodoInput carries the fields accepted when creating a todo.
// Title is required and must be validated before reaching the service.
type CreateTodoInput struct {
	Title       string
	Description *string
	Status      *models.Status
	DueAt       *time.Time
}

// UpdateTodoInput carries a partial update: nil fields leave the existing
// value untouched. ClearDueAt explicitly removes the due date; it is the only
// field with a documented clear path, used by the web form's blank due date.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Status      *models.Status
	DueAt       *time.Time
	ClearDueAt  bool
}

// TodoService orchestrates todo reads and writes over the store, applying
// creation defaults, partial-update semantics and DTO mapping.
type TodoService struct {
	store database.TodoStore
}

// NewTodoService creates a new todo service
func NewTodoService(store database.TodoStore) *TodoService {
	return &TodoService{store: store}
}

// ListAll returns every todo without pagination
func (s *TodoService) ListAll(ctx context.Context) ([]TodoDTO, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}
	if count == 0 {
		return []TodoDTO{}, nil
	}

	todos, _, err := s.store.List(ctx, database.ListOptions{Page: 0, Size: int(count)})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return toDTOs(todos), nil
}

// List returns a page envelope of todos
func (s *TodoService) List(ctx context.Context, opts database.ListOptions) (models.PageResponse[TodoDTO], error) {
	todos, total, err := s.store.List(ctx, opts)
	if err != nil {
		return models.PageResponse[TodoDTO]{}, fmt.Errorf("failed to list todos: %w", err)
	}
	return models.NewPageResponse(toDTOs(todos), opts.Page, opts.Size, total), nil
}

// SearchAll returns every todo matching the filters, without pagination
func (s *TodoService) SearchAll(ctx context.Context, keyword string, status *models.Status) ([]TodoDTO, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}
	size := int(count)
	if size == 0 {
		size = 1
	}

	todos, _, err := s.store.Search(ctx, normalizeKeyword(keyword), status, database.ListOptions{Page: 0, Size: size})
	if err != nil {
		return nil, fmt.Errorf("failed to search todos: %w", err)
	}
	return toDTOs(todos), nil
}

// Search returns a page envelope of todos matching the keyword and status
// filters. A blank or whitespace-only keyword means no keyword filter at all.
func (s *TodoService) Search(ctx context.Context, keyword string, status *models.Status, opts database.ListOptions) (models.PageResponse[TodoDTO], error) {
	todos, total, err := s.store.Search(ctx, normalizeKeyword(keyword), status, opts)
	if err != nil {
		return models.PageResponse[TodoDTO]{}, fmt.Errorf("failed to search todos: %w", err)
	}
	return models.NewPageResponse(toDTOs(todos), opts.Page, opts.Size, total), nil
}

// Get retrieves a single todo by ID
func (s *TodoService) Get(ctx context.Context, id uuid.UUID) (TodoDTO, error) {
	todo, err := s.store.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return TodoDTO{}, &NotFoundError{Resource: "Todo", Field: "id", Value: id}
	}
	if err != nil {
		return TodoDTO{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return toDTO(todo), nil
}

// Create persists a new todo. Status defaults to PENDING when unspecified;
// timestamps are populated by the store and never caller-settable.
func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) (TodoDTO, error) {
	status := models.StatusPending
	if input.Status != nil {
		status = *input.Status
	}

	todo := &models.Todo{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueAt:       input.DueAt,
	}

	if err := s.store.Create(ctx, todo); err != nil {
		return TodoDTO{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return toDTO(todo), nil
}

// Update applies a partial update: only non-nil input fields overwrite
// existing values. LastUpdatedAt is refreshed on every successful update, even
// when no visible field changed.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, input UpdateTodoInput) (TodoDTO, error) {
	todo, err := s.store.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return TodoDTO{}, &NotFoundError{Resource: "Todo", Field: "id", Value: id}
	}
	if err != nil {
		return TodoDTO{}, fmt.Errorf("failed to get todo: %w", err)
	}

	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = input.Description
	}
	if input.Status != nil {
		todo.Status = *input.Status
	}
	if input.ClearDueAt {
		todo.DueAt = nil
	} else if input.DueAt != nil {
		todo.DueAt = input.DueAt
	}

	if err := s.store.Update(ctx, todo); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return TodoDTO{}, &NotFoundError{Resource: "Todo", Field: "id", Value: id}
		}
		return TodoDTO{}, fmt.Errorf("failed to update todo: %w", err)
	}
	return toDTO(todo), nil
}

// Delete removes a todo by ID
func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check todo existence: %w", err)
	}
	if !exists {
		return &NotFoundError{Resource: "Todo", Field: "id", Value: id}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &NotFoundError{Resource: "Todo", Field: "id", Value: id}
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// normalizeKeyword treats blank or whitespace-only keywords as absent
func normalizeKeyword(keyword string) *string {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return nil
	}
	return &keyword
}

func toDTO(todo *models.Todo) TodoDTO {
	return TodoDTO{
		ID:            todo.ID,
		Title:         todo.Title,
		Description:   todo.Description,
		Status:        todo.Status,
		CreatedAt:     todo.CreatedAt,
		LastUpdatedAt: todo.LastUpdatedAt,
		DueAt:         todo.DueAt,
	}
}

func toDTOs(todos []*models.Todo) []TodoDTO {
	dtos := make([]TodoDTO, 0, len(todos))
	for _, todo := range todos {
		dtos = append(dtos, toDTO(todo))
	}
	return dtos
}
