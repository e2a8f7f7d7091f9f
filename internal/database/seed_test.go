package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hieudev/todo-api/internal/models"
)

func TestSeedTodos_FromCSV(t *testing.T) {
	t.Parallel()

	csvPath := filepath.Join(t.TempDir(), "todos.csv")
	content := "title,description,status\n" +
		"Buy milk,Two liters,PENDING\n" +
		"Finish report,,COMPLETED\n" +
		"No status given,Some notes\n" +
		",skipped because title is empty,PENDING\n" +
		"Bad status,Notes,NOT_A_STATUS\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write CSV fixture: %v", err)
	}

	store := NewInMemoryTodoStore()
	if err := SeedTodos(context.Background(), store, csvPath, zap.NewNop()); err != nil {
		t.Fatalf("SeedTodos failed: %v", err)
	}

	todos, total, err := store.List(context.Background(), ListOptions{Size: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 4 {
		t.Fatalf("Expected 4 seeded todos, got %d", total)
	}

	if todos[0].Title != "Buy milk" {
		t.Errorf("Expected first todo 'Buy milk', got %q", todos[0].Title)
	}
	if todos[0].Description == nil || *todos[0].Description != "Two liters" {
		t.Error("Expected description to be populated from the CSV")
	}
	if todos[1].Status != models.StatusCompleted {
		t.Errorf("Expected status COMPLETED, got %s", todos[1].Status)
	}
	if todos[1].Description != nil {
		t.Error("Expected empty description column to stay nil")
	}
	if todos[2].Status != models.StatusPending {
		t.Errorf("Expected missing status to default to PENDING, got %s", todos[2].Status)
	}
	if todos[3].Status != models.StatusPending {
		t.Errorf("Expected invalid status to default to PENDING, got %s", todos[3].Status)
	}
}

func TestSeedTodos_FallsBackToSamples(t *testing.T) {
	t.Parallel()

	store := NewInMemoryTodoStore()
	missing := filepath.Join(t.TempDir(), "does-not-exist.csv")

	if err := SeedTodos(context.Background(), store, missing, zap.NewNop()); err != nil {
		t.Fatalf("SeedTodos failed: %v", err)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count == 0 {
		t.Error("Expected generated sample todos when the CSV is missing")
	}
}

func TestSeedTodos_SkipsWhenNotEmpty(t *testing.T) {
	t.Parallel()

	store := NewInMemoryTodoStore()
	existing := &models.Todo{ID: uuid.New(), Title: "Already here", Status: models.StatusPending}
	if err := store.Create(context.Background(), existing); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := SeedTodos(context.Background(), store, "ignored.csv", zap.NewNop()); err != nil {
		t.Fatalf("SeedTodos failed: %v", err)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected seeding to be skipped, got %d todos", count)
	}
}
