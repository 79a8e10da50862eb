package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/omri-harel/cost-ledger/internal/application/service"
	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	domainservice "github.com/omri-harel/cost-ledger/internal/domain/service"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/middleware"
)

// ReportHandler handles HTTP requests for the three report shapes.
type ReportHandler struct {
	service *service.ReportService
	logger  logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service *service.ReportService, log logger.Logger) *ReportHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ReportHandler{service: service, logger: log}
}

// MonthlyReport handles GET /reports/monthly?year=&month=&currency=.
func (h *ReportHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, currency, ok := h.parsePeriodQuery(w, r, requestID, true)
	if !ok {
		return
	}

	report, err := h.service.BuildMonthlyReport(r.Context(), year, month, currency)
	if err != nil {
		h.sendReportError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// CategoryBreakdown handles GET /reports/categories?year=&month=&currency=.
func (h *ReportHandler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, currency, ok := h.parsePeriodQuery(w, r, requestID, true)
	if !ok {
		return
	}

	breakdown, err := h.service.BuildCategoryBreakdown(r.Context(), year, month, currency)
	if err != nil {
		h.sendReportError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(breakdown)
}

// YearlyBreakdown handles GET /reports/yearly?year=&currency=.
func (h *ReportHandler) YearlyBreakdown(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year, _, currency, ok := h.parsePeriodQuery(w, r, requestID, false)
	if !ok {
		return
	}

	breakdown, err := h.service.BuildYearlyBreakdown(r.Context(), year, currency)
	if err != nil {
		h.sendReportError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(breakdown)
}

// RegisterRoutes registers the report handler routes.
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports/monthly", h.MonthlyReport).Methods("GET")
	router.HandleFunc("/reports/categories", h.CategoryBreakdown).Methods("GET")
	router.HandleFunc("/reports/yearly", h.YearlyBreakdown).Methods("GET")
}

// parsePeriodQuery pulls year, optional month, and target currency out of
// the query string, writing the error response itself when validation fails.
func (h *ReportHandler) parsePeriodQuery(w http.ResponseWriter, r *http.Request, requestID string, wantMonth bool) (year, month int, currency string, ok bool) {
	query := r.URL.Query()

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil || year < 1 {
		sendErrorResponse(w, h.logger, "Invalid year",
			"The 'year' query parameter must be a positive number", http.StatusBadRequest, requestID)
		return 0, 0, "", false
	}

	if wantMonth {
		month, err = strconv.Atoi(query.Get("month"))
		if err != nil || month < 1 || month > 12 {
			sendErrorResponse(w, h.logger, "Invalid month",
				"The 'month' query parameter must be between 1 and 12", http.StatusBadRequest, requestID)
			return 0, 0, "", false
		}
	}

	currency = query.Get("currency")
	if !entity.IsKnownCurrency(currency) {
		sendErrorResponse(w, h.logger, "Unsupported currency",
			"The 'currency' query parameter must be one of the supported codes", http.StatusBadRequest, requestID)
		return 0, 0, "", false
	}

	return year, month, currency, true
}

// sendReportError maps engine failures onto HTTP statuses: rate source
// problems are upstream failures, everything else is internal.
func (h *ReportHandler) sendReportError(w http.ResponseWriter, err error, requestID string) {
	var fetchErr *domainservice.RateFetchError
	var formatErr *domainservice.RateFormatError

	switch {
	case errors.As(err, &fetchErr):
		h.logger.Error("Rate source unavailable", map[string]interface{}{
			"request_id": requestID,
			"address":    fetchErr.Address,
			"status":     fetchErr.StatusCode,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Rate source unavailable",
			"The exchange rate source could not be reached. Please try again later.",
			http.StatusBadGateway, requestID)
	case errors.As(err, &formatErr):
		h.logger.Error("Rate source returned malformed data", map[string]interface{}{
			"request_id": requestID,
			"address":    formatErr.Address,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Rate source returned malformed data",
			"The exchange rate source did not return a valid rate table.",
			http.StatusBadGateway, requestID)
	default:
		h.logger.Error("Unexpected error in report handler", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while building the report",
			http.StatusInternalServerError, requestID)
	}
}
