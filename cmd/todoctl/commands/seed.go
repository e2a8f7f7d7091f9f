package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hieudev/todo-api/internal/config"
	"github.com/hieudev/todo-api/internal/database"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample todos",
		Long:  "Insert sample todos into an empty database, from a CSV file when one is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if csvPath == "" {
				csvPath = cfg.SeedCSVPath
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			ctx := context.Background()
			if err := db.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("failed to ensure schema: %w", err)
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			repo := database.NewTodoRepository(db)
			if err := database.SeedTodos(ctx, repo, csvPath, logger); err != nil {
				return fmt.Errorf("failed to seed todos: %w", err)
			}

			count, err := repo.Count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count todos: %w", err)
			}
			fmt.Printf("Database now holds %d todos.\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to a seed CSV file (defaults to SEED_CSV_PATH)")
	return cmd
}
