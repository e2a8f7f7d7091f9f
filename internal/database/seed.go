package database

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hieudev/todo-api/internal/models"
	"go.uber.org/zap"
)

const maxSeedRecords = 10000

// SeedTodos populates the store with sample data when it is empty. Records are
// read from a CSV file (title, description, status); when the file is missing
// or yields nothing, a small generated sample set is used instead.
func SeedTodos(ctx context.Context, store TodoStore, csvPath string, logger *zap.Logger) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count existing todos: %w", err)
	}
	if count > 0 {
		logger.Info("todos_already_present_skipping_seed", zap.Int64("count", count))
		return nil
	}

	todos := loadTodosFromCSV(csvPath, logger)
	if len(todos) == 0 {
		logger.Warn("seed_csv_missing_or_empty_generating_sample_data", zap.String("path", csvPath))
		todos = sampleTodos()
	}

	for i, todo := range todos {
		if err := store.Create(ctx, todo); err != nil {
			return fmt.Errorf("failed to seed todo %d: %w", i, err)
		}
		if (i+1)%1000 == 0 {
			logger.Info("seed_progress", zap.Int("inserted", i+1), zap.Int("total", len(todos)))
		}
	}

	logger.Info("seeded_todos", zap.Int("count", len(todos)))
	return nil
}

func loadTodosFromCSV(path string, logger *zap.Logger) []*models.Todo {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var todos []*models.Todo
	header := true
	for len(todos) < maxSeedRecords {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("failed_to_parse_seed_csv_line", zap.Error(err))
			continue
		}
		if header {
			header = false
			continue
		}
		if len(record) < 1 || record[0] == "" {
			continue
		}

		todo := &models.Todo{
			ID:     uuid.New(),
			Title:  record[0],
			Status: models.StatusPending,
		}
		if len(record) > 1 && record[1] != "" {
			description := record[1]
			todo.Description = &description
		}
		if len(record) > 2 {
			if status, err := models.ParseStatus(record[2]); err == nil {
				todo.Status = status
			}
		}

		todos = append(todos, todo)
	}

	return todos
}

func sampleTodos() []*models.Todo {
	samples := []struct {
		title       string
		description string
		status      models.Status
	}{
		{"Set up development environment", "Install Go, Postgres and project tooling", models.StatusCompleted},
		{"Write project README", "Document setup, configuration and API usage", models.StatusInProgress},
		{"Review open pull requests", "", models.StatusPending},
		{"Plan next sprint", "Collect backlog items and estimate", models.StatusPending},
		{"Archive stale branches", "Clean up branches merged before last release", models.StatusCancelled},
	}

	todos := make([]*models.Todo, 0, len(samples))
	for _, s := range samples {
		todo := &models.Todo{
			ID:     uuid.New(),
			Title:  s.title,
			Status: s.status,
		}
		if s.description != "" {
			description := s.description
			todo.Description = &description
		}
		todos = append(todos, todo)
	}
	return todos
}
