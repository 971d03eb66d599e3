package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/service"
	"go.uber.org/zap"
)

// QuoteHandler handles HTTP requests for quotes
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// Create godoc
// @Summary Create a new quote
// @Description Creates a quote in draft with the given line items. Omitted unit prices fall back to the product's current price.
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body domain.CreateQuoteRequest true "Quote to create"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		h.handleQuoteError(w, err, "create quote")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/quotes/%s", quote.ID))
	respondJSON(w, http.StatusCreated, quote)
}

// GetByID godoc
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		h.handleQuoteError(w, err, "get quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// GetByNumber godoc
// @Summary Get a quote by its document number
// @Tags quotes
// @Produce json
// @Param number path string true "Quote number, e.g. QUO-00042"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Router /api/v1/quotes/number/{number} [get]
func (h *QuoteHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		respondWithError(w, http.StatusBadRequest, "Quote number is required")
		return
	}

	quote, err := h.quoteService.GetByNumber(r.Context(), number)
	if err != nil {
		h.handleQuoteError(w, err, "get quote by number")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// List godoc
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param clientId query string false "Filter by client ID"
// @Param status query string false "Filter by status" Enums(draft, accepted, rejected, converted_to_order)
// @Param from query string false "Created on or after this date (YYYY-MM-DD)"
// @Param to query string false "Created on or before this date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	var clientID *uuid.UUID
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid clientId")
			return
		}
		clientID = &parsed
	}

	var status *domain.QuoteStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.QuoteStatus(raw)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid status: %s", raw))
			return
		}
		status = &s
	}

	from, to, err := dateRangeParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	quotes, total, err := h.quoteService.List(r.Context(), page, pageSize, clientID, status, from, to)
	if err != nil {
		h.handleQuoteError(w, err, "list quotes")
		return
	}

	respondJSON(w, http.StatusOK, paginated(quotes, total, page, pageSize))
}

// Update godoc
// @Summary Update a quote
// @Description Replaces the quote's line items and recomputes the total. Converted quotes are immutable.
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param quote body domain.UpdateQuoteRequest true "Updated quote"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /api/v1/quotes/{id} [put]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	var req domain.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleQuoteError(w, err, "update quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// UpdateStatus godoc
// @Summary Update a quote's status
// @Description Accepts or rejects a quote. The converted status is set by the convert operation, not here.
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param status body domain.UpdateQuoteStatusRequest true "New status"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /api/v1/quotes/{id}/status [patch]
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	var req domain.UpdateQuoteStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleQuoteError(w, err, "update quote status")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Convert godoc
// @Summary Convert a quote to an order
// @Description Marks the quote converted and creates the order with the quote's items copied verbatim, in one transaction.
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 201 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /api/v1/quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	order, err := h.quoteService.ConvertToOrder(r.Context(), id)
	if err != nil {
		h.handleQuoteError(w, err, "convert quote")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/orders/%s", order.ID))
	respondJSON(w, http.StatusCreated, order)
}

// Delete godoc
// @Summary Delete a quote
// @Description Deletes a quote and its items. Converted quotes cannot be deleted while their order exists.
// @Tags quotes
// @Param id path string true "Quote ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /api/v1/quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		h.handleQuoteError(w, err, "delete quote")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleQuoteError maps service errors to HTTP responses
func (h *QuoteHandler) handleQuoteError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrQuoteNotFound):
		respondWithError(w, http.StatusNotFound, "Quote not found")
	case errors.Is(err, service.ErrClientNotFound):
		respondWithError(w, http.StatusNotFound, "Client not found")
	case errors.Is(err, service.ErrEmployeeNotFound):
		respondWithError(w, http.StatusNotFound, "Employee not found")
	case errors.Is(err, service.ErrProductNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrQuoteConverted):
		respondWithError(w, http.StatusConflict, "Quote has been converted to an order and is immutable")
	case errors.Is(err, service.ErrQuoteAlreadyConverted):
		respondWithError(w, http.StatusConflict, "Quote has already been converted to an order")
	case errors.Is(err, service.ErrQuoteRejected):
		respondWithError(w, http.StatusBadRequest, "A rejected quote cannot be converted")
	case errors.Is(err, service.ErrStatusReserved),
		errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+operation, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
