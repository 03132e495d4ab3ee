package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/audit"
	"github.com/linkmaxxer/gatekeeper/internal/models"
)

const defaultGrantListLimit = 50

// GrantHandler exposes the recent grant records to operators.
type GrantHandler struct {
	store  *audit.Store
	logger zerolog.Logger
}

func NewGrantHandler(store *audit.Store, logger zerolog.Logger) *GrantHandler {
	return &GrantHandler{store: store, logger: logger}
}

// ListRecent returns the most recent grant records, newest first.
func (h *GrantHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultGrantListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records := h.store.Recent(limit)
	if records == nil {
		records = []models.GrantRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
