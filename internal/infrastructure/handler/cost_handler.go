// Package handler exposes the engine over HTTP. The handlers are thin shims
// around the application services; result shapes come straight from them.
package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/omri-harel/cost-ledger/internal/application/service"
	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/middleware"
)

// CostHandler handles HTTP requests for expense records.
type CostHandler struct {
	service *service.ExpenseService
	logger  logger.Logger
}

// NewCostHandler creates a new cost handler.
func NewCostHandler(service *service.ExpenseService, log logger.Logger) *CostHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CostHandler{service: service, logger: log}
}

// CreateCost handles the recording of a new expense. Amount and currency
// validation lives here at the edge; the engine itself stores drafts
// verbatim.
func (h *CostHandler) CreateCost(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreateCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		h.logger.Warn("Invalid amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     req.Amount,
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"Amount must be a positive number", http.StatusBadRequest, requestID)
		return
	}

	if !entity.IsKnownCurrency(req.Currency) {
		h.logger.Warn("Unsupported currency", map[string]interface{}{
			"request_id": requestID,
			"currency":   req.Currency,
		})
		sendErrorResponse(w, h.logger, "Unsupported currency",
			"Currency must be one of the supported codes", http.StatusBadRequest, requestID)
		return
	}

	rec, err := h.service.CreateExpense(r.Context(), entity.ExpenseDraft{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("Unexpected error in create cost", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while recording the expense",
			http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Cost recorded", map[string]interface{}{
		"request_id": requestID,
		"id":         rec.ID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(costResponseFrom(rec))
}

// ListCosts handles retrieving every stored expense record.
func (h *CostHandler) ListCosts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	records, err := h.service.ListExpenses(r.Context())
	if err != nil {
		h.logger.Error("Unexpected error in list costs", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while reading expenses",
			http.StatusInternalServerError, requestID)
		return
	}

	resp := make([]CostResponse, 0, len(records))
	for i := range records {
		resp = append(resp, costResponseFrom(&records[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RegisterRoutes registers the cost handler routes.
func (h *CostHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/costs", h.CreateCost).Methods("POST")
	router.HandleFunc("/costs", h.ListCosts).Methods("GET")
}

func costResponseFrom(rec *entity.ExpenseRecord) CostResponse {
	return CostResponse{
		ID:          rec.ID,
		Amount:      rec.Amount,
		Currency:    rec.Currency,
		Category:    rec.Category,
		Description: rec.Description,
		RecordedAt:  rec.RecordedAt.Format(time.RFC3339),
	}
}

// sendErrorResponse sends a standardized error response.
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}
