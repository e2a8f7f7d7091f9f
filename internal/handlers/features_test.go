package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFeatureFlagHandler_GetAll(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, allEnabledDefaults())

	req := httptest.NewRequest("GET", "/api/features", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var flags map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&flags); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	want := map[string]bool{
		"PING_API":        true,
		"README_LOGGER":   false,
		"TODO_WRITE_API":  true,
		"TODO_SEARCH_API": true,
	}
	if len(flags) != len(want) {
		t.Fatalf("Expected %d flags, got %d: %v", len(want), len(flags), flags)
	}
	for name, enabled := range want {
		if flags[name] != enabled {
			t.Errorf("Expected %s=%v, got %v", name, enabled, flags[name])
		}
	}
}

func TestFeatureFlagHandler_Update(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, allEnabledDefaults())

	req := httptest.NewRequest("PUT", "/api/features/README_LOGGER?enabled=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/features", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var flags map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&flags); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !flags["README_LOGGER"] {
		t.Error("Expected README_LOGGER to be enabled after update")
	}
}

func TestFeatureFlagHandler_UpdateUnknownFlag(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, allEnabledDefaults())

	req := httptest.NewRequest("PUT", "/api/features/NOT_A_FLAG?enabled=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestFeatureFlagHandler_UpdateInvalidBool(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, allEnabledDefaults())

	tests := []string{
		"/api/features/PING_API?enabled=yes",
		"/api/features/PING_API?enabled=",
		"/api/features/PING_API",
	}

	for _, path := range tests {
		req := httptest.NewRequest("PUT", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("PUT %s: expected status 400, got %d", path, w.Code)
		}
	}
}
