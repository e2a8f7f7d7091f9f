package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hieudev/todo-api/internal/database"
	"github.com/hieudev/todo-api/internal/middleware"
)

const (
	// DefaultPageSize is the default page size for pagination
	DefaultPageSize = 10
	// MaxPageSize is the maximum page size for pagination
	MaxPageSize = 100
)

// sortFields maps the externally accepted sort fields onto store columns.
// Anything outside this allow-list falls back to no sorting.
var sortFields = map[string]string{
	"todo":        "title",
	"description": "description",
	"status":      "status",
	"id":          "id",
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError sends a structured error JSON response
func respondError(w http.ResponseWriter, r *http.Request, status int, errorType, message string, fieldErrors ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := middleware.ErrorResponse{
		Status:    status,
		Error:     errorType,
		Message:   message,
		Path:      r.URL.Path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Errors:    fieldErrors,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parsePageRequest extracts pagination parameters. Page is floored at 0,
// size is floored at 1 and capped at MaxPageSize. Out-of-range values are
// clamped, never rejected.
func parsePageRequest(r *http.Request) (page, size int) {
	page = 0
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			page = parsed
		}
	}
	if page < 0 {
		page = 0
	}

	size = DefaultPageSize
	if s := r.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			size = parsed
		}
	}
	size = clampPageSize(size)

	return page, size
}

func clampPageSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// parseSort parses a "<field>,<asc|desc>" sort parameter. Anything that is
// not exactly two comma-separated tokens, or whose field is outside the
// allow-list, means no sort was requested.
func parseSort(sort string) (column string, desc bool) {
	if strings.TrimSpace(sort) == "" {
		return "", false
	}

	parts := strings.Split(sort, ",")
	if len(parts) != 2 {
		return "", false
	}

	field := strings.TrimSpace(parts[0])
	direction := strings.ToUpper(strings.TrimSpace(parts[1]))

	col, ok := sortFields[field]
	if !ok {
		return "", false
	}

	return col, direction == "DESC"
}

// listOptionsFromRequest builds store list options from query parameters
func listOptionsFromRequest(r *http.Request) database.ListOptions {
	page, size := parsePageRequest(r)
	column, desc := parseSort(r.URL.Query().Get("sort"))
	return database.ListOptions{
		Page:       page,
		Size:       size,
		SortColumn: column,
		SortDesc:   desc,
	}
}
