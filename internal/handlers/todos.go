package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hieudev/todo-api/internal/features"
	logpkg "github.com/hieudev/todo-api/internal/logger"
	"github.com/hieudev/todo-api/internal/models"
	"github.com/hieudev/todo-api/internal/service"
	"github.com/hieudev/todo-api/internal/validation"
)

// TodoHandler handles todo REST requests
type TodoHandler struct {
	svc    *service.TodoService
	flags  *features.Store
	logger *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(svc *service.TodoService, flags *features.Store, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, flags: flags, logger: logger}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already have the /api/todos prefix.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("", h.CreateTodo).Methods("POST")
	r.HandleFunc("/search", h.SearchTodos).Methods("GET")
	r.HandleFunc("/{id}", h.GetTodo).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTodo).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
}

// CreateTodoRequest represents a create todo request body
type CreateTodoRequest struct {
	Title       string     `json:"todo" validate:"required,min=1,max=255"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" validate:"omitempty,todo_status"`
	DueAt       *time.Time `json:"dueAt"`
}

// UpdateTodoRequest represents a partial update request body.
// Absent fields leave the stored value untouched.
type UpdateTodoRequest struct {
	Title       *string    `json:"todo" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" validate:"omitempty,todo_status"`
	DueAt       *time.Time `json:"dueAt"`
}

// gate checks a feature flag before the handler touches the service. When the
// flag is disabled the request is answered with 503 and the service is never
// invoked.
func (h *TodoHandler) gate(w http.ResponseWriter, r *http.Request, flag features.Flag) bool {
	if !h.flags.IsEnabled(flag) {
		respondError(w, r, http.StatusServiceUnavailable, "Service Unavailable",
			"This feature is currently disabled")
		return false
	}
	return true
}

// ListTodos returns a page envelope of todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), listOptionsFromRequest(r))
	if err != nil {
		h.logger.Error("failed_to_list_todos", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "Internal Server Error",
			"Failed to retrieve todos")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// SearchTodos returns a page envelope of todos matching keyword and status filters
func (h *TodoHandler) SearchTodos(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, r, features.FlagTodoSearchAPI) {
		return
	}

	keyword := r.URL.Query().Get("keyword")

	var status *models.Status
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, err := models.ParseStatus(s)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "Invalid Argument", err.Error())
			return
		}
		status = &parsed
	}

	page, err := h.svc.Search(r.Context(), keyword, status, listOptionsFromRequest(r))
	if err != nil {
		h.logger.Error("failed_to_search_todos", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "Internal Server Error",
			"Failed to search todos")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GetTodo returns a single todo by ID
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	dto, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "failed_to_get_todo")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// CreateTodo creates a new todo
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, r, features.FlagTodoWriteAPI) {
		return
	}

	var req CreateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation Failed",
			"Invalid input provided", validation.FieldErrors(err)...)
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondError(w, r, http.StatusBadRequest, "Validation Failed",
			"Invalid input provided", "todo: Todo title is required")
		return
	}

	input := service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		input.Status = &status
	}

	dto, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("failed_to_create_todo", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "Internal Server Error",
			"Failed to create todo")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// UpdateTodo applies a partial update to an existing todo
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, r, features.FlagTodoWriteAPI) {
		return
	}

	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation Failed",
			"Invalid input provided", validation.FieldErrors(err)...)
		return
	}

	input := service.UpdateTodoInput{
		Description: req.Description,
		DueAt:       req.DueAt,
	}
	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		if title == "" {
			respondError(w, r, http.StatusBadRequest, "Validation Failed",
				"Invalid input provided", "todo: Todo title cannot be blank")
			return
		}
		input.Title = &title
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		input.Status = &status
	}

	dto, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, r, err, "failed_to_update_todo")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// DeleteTodo deletes a todo by ID
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, r, features.FlagTodoWriteAPI) {
		return
	}

	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "failed_to_delete_todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondServiceError maps service errors onto the response taxonomy
func (h *TodoHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, event string) {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		respondError(w, r, http.StatusNotFound, "Resource Not Found", nf.Error())
		return
	}

	h.logger.Error(event,
		zap.String("error", logpkg.SanitizeError(err)),
		zap.String("path", logpkg.SanitizePath(r.URL.Path)),
	)
	respondError(w, r, http.StatusInternalServerError, "Internal Server Error",
		"An unexpected error occurred. Please try again later.")
}

func parseTodoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid Argument",
			fmt.Sprintf("Invalid todo ID: %s", mux.Vars(r)["id"]))
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, r, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondError(w, r, http.StatusBadRequest, "Invalid Argument", "Invalid request body")
		return false
	}
	return true
}
