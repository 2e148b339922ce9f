package handlers

import (
	"encoding/json"
	"net/http"

	"smsbridge/internal/config"
	"smsbridge/pkg/logging"
)

// HealthHandler reports process liveness and whether each workboard
// configuration value is present. Values themselves are never exposed.
type HealthHandler struct {
	loadConfig func() *config.Config
	logger     *logging.Logger
}

// NewHealthHandler creates a health handler; nil loadConfig selects config.Load.
func NewHealthHandler(loadConfig func() *config.Config, logger *logging.Logger) *HealthHandler {
	if loadConfig == nil {
		loadConfig = config.Load
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HealthHandler{loadConfig: loadConfig, logger: logger}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig()
	response := map[string]any{
		"status": "ok",
		"config": map[string]bool{
			"api_key":              cfg.MondayAPIKey != "",
			"contact_board_id":     cfg.ContactBoardID != "",
			"phone_column_id":      cfg.PhoneColumnID != "",
			"recipients":           len(cfg.Recipients) > 0,
			"fallback_target_id":   cfg.FallbackTargetID != "",
			"fallback_target_type": cfg.FallbackTargetType != "",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
