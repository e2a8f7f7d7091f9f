package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hieudev/todo-api/internal/models"
)

// InMemoryTodoStore is a TodoStore backed by an in-process map. It mirrors the
// SQL repository's behavior (timestamps, not-found errors, filter and sort
// semantics) and is used by tests and by todoctl when exercising the service
// without a database.
type InMemoryTodoStore struct {
	mu    sync.RWMutex
	todos map[uuid.UUID]*models.Todo
	order []uuid.UUID
}

// NewInMemoryTodoStore creates an empty in-memory todo store
func NewInMemoryTodoStore() *InMemoryTodoStore {
	return &InMemoryTodoStore{
		todos: make(map[uuid.UUID]*models.Todo),
	}
}

// List retrieves a page of todos and the total count
func (s *InMemoryTodoStore) List(ctx context.Context, opts ListOptions) ([]*models.Todo, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.snapshot()
	sortTodos(all, opts)
	return paginate(all, opts), int64(len(all)), nil
}

// Search retrieves a page of todos matching the keyword and status filters
func (s *InMemoryTodoStore) Search(ctx context.Context, keyword *string, status *models.Status, opts ListOptions) ([]*models.Todo, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Todo
	for _, todo := range s.snapshot() {
		if keyword != nil {
			needle := strings.ToLower(*keyword)
			inTitle := strings.Contains(strings.ToLower(todo.Title), needle)
			inDescription := todo.Description != nil &&
				strings.Contains(strings.ToLower(*todo.Description), needle)
			if !inTitle && !inDescription {
				continue
			}
		}
		if status != nil && todo.Status != *status {
			continue
		}
		matched = append(matched, todo)
	}

	sortTodos(matched, opts)
	return paginate(matched, opts), int64(len(matched)), nil
}

// GetByID retrieves a todo by ID
func (s *InMemoryTodoStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *todo
	return &copied, nil
}

// Create inserts a new todo, populating both timestamps
func (s *InMemoryTodoStore) Create(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.LastUpdatedAt = now

	copied := *todo
	s.todos[todo.ID] = &copied
	s.order = append(s.order, todo.ID)
	return nil
}

// Update rewrites an existing todo and refreshes its last-updated timestamp
func (s *InMemoryTodoStore) Update(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.todos[todo.ID]
	if !ok {
		return ErrNotFound
	}

	todo.CreatedAt = existing.CreatedAt
	todo.LastUpdatedAt = time.Now().UTC()

	copied := *todo
	s.todos[todo.ID] = &copied
	return nil
}

// Delete deletes a todo by ID
func (s *InMemoryTodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ExistsByID reports whether a todo with the given ID exists
func (s *InMemoryTodoStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.todos[id]
	return ok, nil
}

// Count returns the total number of todos
func (s *InMemoryTodoStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.todos)), nil
}

// snapshot returns copies of all todos in insertion order. Callers must hold
// at least a read lock.
func (s *InMemoryTodoStore) snapshot() []*models.Todo {
	todos := make([]*models.Todo, 0, len(s.order))
	for _, id := range s.order {
		if todo, ok := s.todos[id]; ok {
			copied := *todo
			todos = append(todos, &copied)
		}
	}
	return todos
}

func sortTodos(todos []*models.Todo, opts ListOptions) {
	if _, ok := sortColumns[opts.SortColumn]; !ok {
		return
	}

	key := func(t *models.Todo) string {
		switch opts.SortColumn {
		case "title":
			return t.Title
		case "description":
			if t.Description == nil {
				return ""
			}
			return *t.Description
		case "status":
			return string(t.Status)
		default:
			return t.ID.String()
		}
	}

	sort.SliceStable(todos, func(i, j int) bool {
		if opts.SortDesc {
			return key(todos[i]) > key(todos[j])
		}
		return key(todos[i]) < key(todos[j])
	})
}

func paginate(todos []*models.Todo, opts ListOptions) []*models.Todo {
	start := opts.Page * opts.Size
	if start >= len(todos) {
		return nil
	}
	end := start + opts.Size
	if end > len(todos) {
		end = len(todos)
	}
	return todos[start:end]
}
