package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hieudev/todo-api/internal/features"
)

func TestPingHandler(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, allEnabledDefaults())

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "pong" {
		t.Errorf("Expected body 'pong', got %q", w.Body.String())
	}
}

func TestPingHandler_Gated(t *testing.T) {
	t.Parallel()

	defaults := allEnabledDefaults()
	defaults.PingAPI = false
	router, _, flags := newTestRouter(t, defaults)

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}

	flags.SetEnabled(features.FlagPingAPI, true)

	req = httptest.NewRequest("GET", "/ping", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 after enabling flag, got %d", w.Code)
	}
}
