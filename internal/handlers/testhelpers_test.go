package handlers

import (
	"context"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hieudev/todo-api/internal/database"
	"github.com/hieudev/todo-api/internal/features"
	"github.com/hieudev/todo-api/internal/models"
	"github.com/hieudev/todo-api/internal/service"
)

// newTestRouter wires the REST handlers against an in-memory store so tests
// can drive the full routing and response path without a database.
func newTestRouter(t *testing.T, defaults features.Defaults) (*mux.Router, *service.TodoService, *features.Store) {
	t.Helper()

	store := database.NewInMemoryTodoStore()
	svc := service.NewTodoService(store)
	flags := features.NewStore(defaults, false, "", zap.NewNop())

	router := mux.NewRouter()
	todoHandler := NewTodoHandler(svc, flags, zap.NewNop())
	todoHandler.RegisterRoutes(router.PathPrefix("/api/todos").Subrouter())
	featureHandler := NewFeatureFlagHandler(flags)
	featureHandler.RegisterRoutes(router.PathPrefix("/api/features").Subrouter())
	router.HandleFunc("/ping", NewPingHandler(flags).Ping).Methods("GET")

	return router, svc, flags
}

func allEnabledDefaults() features.Defaults {
	return features.Defaults{
		PingAPI:       true,
		ReadmeLogger:  false,
		TodoWriteAPI:  true,
		TodoSearchAPI: true,
	}
}

func createTestTodo(t *testing.T, svc *service.TodoService, title string) service.TodoDTO {
	t.Helper()

	dto, err := svc.Create(context.Background(), service.CreateTodoInput{Title: title})
	if err != nil {
		t.Fatalf("Failed to create test todo: %v", err)
	}
	return dto
}

func statusPtr(s models.Status) *models.Status { return &s }
