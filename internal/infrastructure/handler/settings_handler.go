package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/omri-harel/cost-ledger/internal/domain/repository"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/middleware"
)

// SettingsHandler handles HTTP requests for the settings collection, most
// notably the rate-source override.
type SettingsHandler struct {
	settings repository.SettingRepository
	logger   logger.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings repository.SettingRepository, log logger.Logger) *SettingsHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SettingsHandler{settings: settings, logger: log}
}

// GetSetting handles retrieving a setting by key. A stored empty string is
// returned as such; only an absent key is a 404.
func (h *SettingsHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	key := mux.Vars(r)["key"]

	value, err := h.settings.GetSetting(r.Context(), key)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			sendErrorResponse(w, h.logger, "Setting not found",
				"No value is stored under the requested key", http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Unexpected error in get setting", map[string]interface{}{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while reading the setting",
			http.StatusInternalServerError, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SettingResponse{Key: key, Value: value})
}

// PutSetting handles storing a setting. Last write wins; an empty value is
// stored as-is.
func (h *SettingsHandler) PutSetting(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	key := mux.Vars(r)["key"]

	var req PutSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if err := h.settings.PutSetting(r.Context(), key, req.Value); err != nil {
		h.logger.Error("Unexpected error in put setting", map[string]interface{}{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while storing the setting",
			http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Setting stored", map[string]interface{}{
		"request_id": requestID,
		"key":        key,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SettingResponse{Key: key, Value: req.Value})
}

// RegisterRoutes registers the settings handler routes.
func (h *SettingsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/settings/{key}", h.GetSetting).Methods("GET")
	router.HandleFunc("/settings/{key}", h.PutSetting).Methods("PUT")
}
