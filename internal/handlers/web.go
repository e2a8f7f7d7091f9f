package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hieudev/todo-api/internal/features"
	"github.com/hieudev/todo-api/internal/models"
	"github.com/hieudev/todo-api/internal/service"
	"github.com/hieudev/todo-api/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// dueDateFormat matches the value produced by an HTML datetime-local input.
const dueDateFormat = "2006-01-02T15:04"

// WebHandler renders the server-side HTML pages
type WebHandler struct {
	svc    *service.TodoService
	flags  *features.Store
	logger *zap.Logger
	tmpl   *template.Template
}

// NewWebHandler creates a new web handler with all page templates parsed
func NewWebHandler(svc *service.TodoService, flags *features.Store, logger *zap.Logger) (*WebHandler, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"formatTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"formatDueInput": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(dueDateFormat)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &WebHandler{svc: svc, flags: flags, logger: logger, tmpl: tmpl}, nil
}

// RegisterRoutes registers web UI routes on the given router
func (h *WebHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/todos", h.ListTodos).Methods("GET")
	r.HandleFunc("/todos", h.CreateTodo).Methods("POST")
	r.HandleFunc("/todos/new", h.ShowCreateForm).Methods("GET")
	r.HandleFunc("/todos/{id}/edit", h.ShowEditForm).Methods("GET")
	r.HandleFunc("/todos/{id}", h.UpdateTodo).Methods("POST")
	r.HandleFunc("/todos/{id}/delete", h.DeleteTodo).Methods("POST")
	r.HandleFunc("/features", h.FeaturesPage).Methods("GET")
	r.HandleFunc("/features/{name}", h.ToggleFeature).Methods("POST")
	r.HandleFunc("/contact", h.ContactPage).Methods("GET")
}

// listPageData is the view model for the todo list page
type listPageData struct {
	Todos        []service.TodoDTO
	Page         models.PageResponse[service.TodoDTO]
	CurrentPage  int
	PageSize     int
	Sort         string
	Keyword      string
	StatusFilter string
	Statuses     []models.Status
	PageNumbers  []int
	CanWrite     bool
	CanSearch    bool
	Success      string
	Error        string
}

// formPageData is the view model for the create and edit forms
type formPageData struct {
	Todo     service.TodoDTO
	Statuses []models.Status
	IsEdit   bool
	Error    string
}

// Home redirects the root path to the todo list
func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// ListTodos renders the paginated todo list, optionally filtered by keyword
// and status when the search feature is enabled
func (h *WebHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := listOptionsFromRequest(r)
	opts.Size = clampPageSize(opts.Size)

	keyword := q.Get("keyword")
	statusFilter := ""
	var status *models.Status
	if s := q.Get("status"); s != "" {
		if parsed, err := models.ParseStatus(s); err == nil {
			status = &parsed
			statusFilter = s
		}
	}

	canSearch := h.flags.IsEnabled(features.FlagTodoSearchAPI)

	var page models.PageResponse[service.TodoDTO]
	var err error
	if canSearch && (keyword != "" || status != nil) {
		page, err = h.svc.Search(r.Context(), keyword, status, opts)
	} else {
		page, err = h.svc.List(r.Context(), opts)
	}
	if err != nil {
		h.logger.Error("failed_to_render_todo_list", zap.Error(err))
		h.renderError(w, http.StatusInternalServerError, "Failed to load todos")
		return
	}

	// The requested page can fall past the end after a size change or a
	// delete. Redirect to the last page that still exists.
	if opts.Page >= page.TotalPages && page.TotalPages > 0 {
		redirect := url.Values{}
		redirect.Set("page", fmt.Sprintf("%d", page.TotalPages-1))
		redirect.Set("size", fmt.Sprintf("%d", opts.Size))
		if s := q.Get("sort"); s != "" {
			redirect.Set("sort", s)
		}
		if keyword != "" {
			redirect.Set("keyword", keyword)
		}
		if statusFilter != "" {
			redirect.Set("status", statusFilter)
		}
		http.Redirect(w, r, "/todos?"+redirect.Encode(), http.StatusFound)
		return
	}

	data := listPageData{
		Todos:        page.Content,
		Page:         page,
		CurrentPage:  opts.Page,
		PageSize:     opts.Size,
		Sort:         q.Get("sort"),
		Keyword:      keyword,
		StatusFilter: statusFilter,
		Statuses:     models.AllStatuses(),
		PageNumbers:  calculatePageNumbers(opts.Page, page.TotalPages),
		CanWrite:     h.flags.IsEnabled(features.FlagTodoWriteAPI),
		CanSearch:    canSearch,
		Success:      q.Get("success"),
		Error:        q.Get("error"),
	}

	h.render(w, "todos_list.html", data)
}

// ShowCreateForm renders an empty todo form
func (h *WebHandler) ShowCreateForm(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsEnabled(features.FlagTodoWriteAPI) {
		h.redirectWithError(w, r, "Todo write operations are currently disabled.")
		return
	}

	h.render(w, "todos_form.html", formPageData{
		Todo:     service.TodoDTO{Status: models.StatusPending},
		Statuses: models.AllStatuses(),
		IsEdit:   false,
	})
}

// ShowEditForm renders the form pre-filled with an existing todo
func (h *WebHandler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsEnabled(features.FlagTodoWriteAPI) {
		h.redirectWithError(w, r, "Todo write operations are currently disabled.")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.redirectWithError(w, r, "Invalid todo ID")
		return
	}

	dto, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.redirectWithError(w, r, err.Error())
		return
	}

	h.render(w, "todos_form.html", formPageData{
		Todo:     dto,
		Statuses: models.AllStatuses(),
		IsEdit:   true,
	})
}

// CreateTodo handles the create form submission
func (h *WebHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsEnabled(features.FlagTodoWriteAPI) {
		h.redirectWithError(w, r, "Todo write operations are currently disabled.")
		return
	}

	title := validation.SanitizeText(r.FormValue("todo"))
	if title == "" {
		h.redirectWithError(w, r, "Todo title is required")
		return
	}

	input := service.CreateTodoInput{Title: title}
	if desc := validation.SanitizeText(r.FormValue("description")); desc != "" {
		input.Description = &desc
	}
	if s := r.FormValue("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			h.redirectWithError(w, r, err.Error())
			return
		}
		input.Status = &status
	}
	if due := r.FormValue("due_at"); due != "" {
		t, err := time.Parse(dueDateFormat, due)
		if err != nil {
			h.redirectWithError(w, r, "Invalid due date")
			return
		}
		input.DueAt = &t
	}

	if _, err := h.svc.Create(r.Context(), input); err != nil {
		h.logger.Error("failed_to_create_todo_via_form", zap.Error(err))
		h.redirectWithError(w, r, "Failed to create todo: "+err.Error())
		return
	}

	h.redirectWithSuccess(w, r, "Todo created successfully!")
}

// UpdateTodo handles the edit form submission. A blank due date clears any
// stored due date.
func (h *WebHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsEnabled(features.FlagTodoWriteAPI) {
		h.redirectWithError(w, r, "Todo write operations are currently disabled.")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.redirectWithError(w, r, "Invalid todo ID")
		return
	}

	title := validation.SanitizeText(r.FormValue("todo"))
	if title == "" {
		h.redirectWithError(w, r, "Todo title is required")
		return
	}

	input := service.UpdateTodoInput{Title: &title}
	desc := validation.SanitizeText(r.FormValue("description"))
	input.Description = &desc
	if s := r.FormValue("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			h.redirectWithError(w, r, err.Error())
			return
		}
		input.Status = &status
	}
	if due := r.FormValue("due_at"); due != "" {
		t, err := time.Parse(dueDateFormat, due)
		if err != nil {
			h.redirectWithError(w, r, "Invalid due date")
			return
		}
		input.DueAt = &t
	} else {
		input.ClearDueAt = true
	}

	if _, err := h.svc.Update(r.Context(), id, input); err != nil {
		h.logger.Error("failed_to_update_todo_via_form", zap.Error(err))
		h.redirectWithError(w, r, "Failed to update todo: "+err.Error())
		return
	}

	h.redirectWithSuccess(w, r, "Todo updated successfully!")
}

// DeleteTodo handles the delete form submission
func (h *WebHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsEnabled(features.FlagTodoWriteAPI) {
		h.redirectWithError(w, r, "Todo write operations are currently disabled.")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.redirectWithError(w, r, "Invalid todo ID")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.redirectWithError(w, r, "Failed to delete todo: "+err.Error())
		return
	}

	h.redirectWithSuccess(w, r, "Todo deleted successfully!")
}

// featuresPageData is the view model for the feature flag admin page
type featuresPageData struct {
	Flags   map[string]bool
	Success string
	Error   string
}

// FeaturesPage renders the feature flag management page
func (h *WebHandler) FeaturesPage(w http.ResponseWriter, r *http.Request) {
	all := h.flags.All()
	flagStates := make(map[string]bool, len(all))
	for flag, enabled := range all {
		flagStates[string(flag)] = enabled
	}

	h.render(w, "features.html", featuresPageData{
		Flags:   flagStates,
		Success: r.URL.Query().Get("success"),
		Error:   r.URL.Query().Get("error"),
	})
}

// ToggleFeature flips a flag from the admin page form
func (h *WebHandler) ToggleFeature(w http.ResponseWriter, r *http.Request) {
	flag, err := features.ParseFlag(mux.Vars(r)["name"])
	if err != nil {
		http.Redirect(w, r, "/features?error="+url.QueryEscape(err.Error()), http.StatusFound)
		return
	}

	enabled := r.FormValue("enabled") == "true"
	h.flags.SetEnabled(flag, enabled)

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	msg := fmt.Sprintf("Feature %s %s", flag, state)
	http.Redirect(w, r, "/features?success="+url.QueryEscape(msg), http.StatusFound)
}

// ContactPage renders the static contact page
func (h *WebHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "contact.html", nil)
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed_to_render_template",
			zap.String("template", name),
			zap.Error(err))
	}
}

func (h *WebHandler) renderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, "error.html", map[string]any{
		"StatusCode": status,
		"StatusText": http.StatusText(status),
		"Message":    message,
	}); err != nil {
		h.logger.Error("failed_to_render_template",
			zap.String("template", "error.html"),
			zap.Error(err))
	}
}

func (h *WebHandler) redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/todos?error="+url.QueryEscape(msg), http.StatusFound)
}

func (h *WebHandler) redirectWithSuccess(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/todos?success="+url.QueryEscape(msg), http.StatusFound)
}

// calculatePageNumbers returns the page indexes to render in the pagination
// bar. The current page keeps two neighbors on each side, with the first and
// last pages always visible and -1 marking an elided gap.
func calculatePageNumbers(currentPage, totalPages int) []int {
	var pageNumbers []int

	if totalPages <= 7 {
		for i := 0; i < totalPages; i++ {
			pageNumbers = append(pageNumbers, i)
		}
		return pageNumbers
	}

	startPage := currentPage - 2
	if startPage < 0 {
		startPage = 0
	}
	endPage := currentPage + 2
	if endPage > totalPages-1 {
		endPage = totalPages - 1
	}

	if startPage > 0 {
		pageNumbers = append(pageNumbers, 0)
		if startPage > 1 {
			pageNumbers = append(pageNumbers, -1)
		}
	}

	for i := startPage; i <= endPage; i++ {
		pageNumbers = append(pageNumbers, i)
	}

	if endPage < totalPages-1 {
		if endPage < totalPages-2 {
			pageNumbers = append(pageNumbers, -1)
		}
		pageNumbers = append(pageNumbers, totalPages-1)
	}

	return pageNumbers
}
