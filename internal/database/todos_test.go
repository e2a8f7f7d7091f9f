package database

import (
	"testing"
)

func TestOrderClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts ListOptions
		want string
	}{
		{
			name: "no sort column",
			opts: ListOptions{},
			want: "",
		},
		{
			name: "title ascending",
			opts: ListOptions{SortColumn: "title"},
			want: " ORDER BY title ASC",
		},
		{
			name: "title descending",
			opts: ListOptions{SortColumn: "title", SortDesc: true},
			want: " ORDER BY title DESC",
		},
		{
			name: "status descending",
			opts: ListOptions{SortColumn: "status", SortDesc: true},
			want: " ORDER BY status DESC",
		},
		{
			name: "id ascending",
			opts: ListOptions{SortColumn: "id"},
			want: " ORDER BY id ASC",
		},
		{
			name: "unknown column produces no ordering",
			opts: ListOptions{SortColumn: "created_at; DROP TABLE todos"},
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := orderClause(tt.opts); got != tt.want {
				t.Errorf("orderClause(%+v) = %q, want %q", tt.opts, got, tt.want)
			}
		})
	}
}
