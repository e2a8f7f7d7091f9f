package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hieudev/todo-api/internal/features"
)

// FeatureFlagHandler exposes feature flags for inspection and runtime toggling
type FeatureFlagHandler struct {
	flags *features.Store
}

// NewFeatureFlagHandler creates a new feature flag handler
func NewFeatureFlagHandler(flags *features.Store) *FeatureFlagHandler {
	return &FeatureFlagHandler{flags: flags}
}

// RegisterRoutes registers feature flag routes on the given router.
// The router should already have the /api/features prefix.
func (h *FeatureFlagHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetAll).Methods("GET")
	r.HandleFunc("/{name}", h.Update).Methods("PUT")
}

// GetAll returns the current state of every flag as a name to boolean map
func (h *FeatureFlagHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	all := h.flags.All()
	response := make(map[string]bool, len(all))
	for flag, enabled := range all {
		response[string(flag)] = enabled
	}
	respondJSON(w, http.StatusOK, response)
}

// Update toggles a single flag by name
func (h *FeatureFlagHandler) Update(w http.ResponseWriter, r *http.Request) {
	flag, err := features.ParseFlag(mux.Vars(r)["name"])
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid Argument", err.Error())
		return
	}

	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid Argument",
			"Query parameter 'enabled' must be a boolean")
		return
	}

	h.flags.SetEnabled(flag, enabled)
	w.WriteHeader(http.StatusNoContent)
}
