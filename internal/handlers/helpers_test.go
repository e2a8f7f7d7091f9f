package handlers

import (
	"net/http/httptest"
	"testing"
)

func TestParseSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sort       string
		wantColumn string
		wantDesc   bool
	}{
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"todo ascending", "todo,asc", "title", false},
		{"todo descending", "todo,desc", "title", true},
		{"direction case insensitive", "status,DESC", "status", true},
		{"id field", "id,asc", "id", false},
		{"description field", "description,desc", "description", true},
		{"unknown field ignored", "createdAt,asc", "", false},
		{"single token ignored", "todo", "", false},
		{"three tokens ignored", "todo,asc,extra", "", false},
		{"unknown direction treated as asc", "todo,sideways", "title", false},
		{"spaces around tokens", " todo , desc ", "title", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			column, desc := parseSort(tt.sort)
			if column != tt.wantColumn {
				t.Errorf("Expected column %q, got %q", tt.wantColumn, column)
			}
			if desc != tt.wantDesc {
				t.Errorf("Expected desc %v, got %v", tt.wantDesc, desc)
			}
		})
	}
}

func TestParsePageRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		wantPage int
		wantSize int
	}{
		{"defaults", "/api/todos", 0, DefaultPageSize},
		{"explicit values", "/api/todos?page=3&size=25", 3, 25},
		{"negative page floored", "/api/todos?page=-5", 0, DefaultPageSize},
		{"zero size floored", "/api/todos?size=0", 0, 1},
		{"negative size floored", "/api/todos?size=-10", 0, 1},
		{"oversized clamped", "/api/todos?size=500", 0, MaxPageSize},
		{"size at max", "/api/todos?size=100", 0, 100},
		{"non-numeric ignored", "/api/todos?page=abc&size=xyz", 0, DefaultPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", tt.url, nil)
			page, size := parsePageRequest(req)
			if page != tt.wantPage {
				t.Errorf("Expected page %d, got %d", tt.wantPage, page)
			}
			if size != tt.wantSize {
				t.Errorf("Expected size %d, got %d", tt.wantSize, size)
			}
		})
	}
}

func TestCalculatePageNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		want        []int
	}{
		{"no pages", 0, 0, nil},
		{"single page", 0, 1, []int{0}},
		{"seven pages shows all", 3, 7, []int{0, 1, 2, 3, 4, 5, 6}},
		{"start of long range", 0, 20, []int{0, 1, 2, -1, 19}},
		{"middle of long range", 10, 20, []int{0, -1, 8, 9, 10, 11, 12, -1, 19}},
		{"end of long range", 19, 20, []int{0, -1, 17, 18, 19}},
		{"near start no leading gap", 2, 20, []int{0, 1, 2, 3, 4, -1, 19}},
		{"adjacent to last page", 16, 20, []int{0, -1, 14, 15, 16, 17, 18, 19}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := calculatePageNumbers(tt.currentPage, tt.totalPages)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
