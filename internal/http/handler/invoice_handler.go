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

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// GetByID godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /api/v1/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		h.handleInvoiceError(w, err, "get invoice")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// GetByNumber godoc
// @Summary Get an invoice by its document number
// @Tags invoices
// @Produce json
// @Param number path string true "Invoice number, e.g. INV-00042"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.APIError
// @Router /api/v1/invoices/number/{number} [get]
func (h *InvoiceHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		respondWithError(w, http.StatusBadRequest, "Invoice number is required")
		return
	}

	invoice, err := h.invoiceService.GetByNumber(r.Context(), number)
	if err != nil {
		h.handleInvoiceError(w, err, "get invoice by number")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// List godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param clientId query string false "Filter by client ID"
// @Param status query string false "Filter by status" Enums(pending, paid, overdue)
// @Param from query string false "Due on or after this date (YYYY-MM-DD)"
// @Param to query string false "Due on or before this date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
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

	var status *domain.InvoiceStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.InvoiceStatus(raw)
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

	invoices, total, err := h.invoiceService.List(r.Context(), page, pageSize, clientID, status, from, to)
	if err != nil {
		h.handleInvoiceError(w, err, "list invoices")
		return
	}

	respondJSON(w, http.StatusOK, paginated(invoices, total, page, pageSize))
}

// GetOverdue godoc
// @Summary List overdue invoices
// @Tags invoices
// @Produce json
// @Success 200 {array} domain.InvoiceDTO
// @Failure 500 {object} domain.APIError
// @Router /api/v1/invoices/overdue [get]
func (h *InvoiceHandler) GetOverdue(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoiceService.GetOverdue(r.Context())
	if err != nil {
		h.handleInvoiceError(w, err, "list overdue invoices")
		return
	}

	respondJSON(w, http.StatusOK, invoices)
}

// SweepOverdue godoc
// @Summary Run the overdue sweep now
// @Description Reclassifies pending invoices past their due date as overdue. Safe to run repeatedly.
// @Tags invoices
// @Produce json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} domain.APIError
// @Router /api/v1/invoices/sweep-overdue [post]
func (h *InvoiceHandler) SweepOverdue(w http.ResponseWriter, r *http.Request) {
	changed, err := h.invoiceService.SweepOverdue(r.Context())
	if err != nil {
		h.handleInvoiceError(w, err, "sweep overdue invoices")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"markedOverdue": changed})
}

// MarkPaid godoc
// @Summary Mark an invoice as paid
// @Description Records payment with an optional payment date and method. Marking an already-paid invoice re-applies the values.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payment body domain.MarkInvoicePaidRequest false "Payment details"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /api/v1/invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var req domain.MarkInvoicePaidRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	invoice, err := h.invoiceService.MarkPaid(r.Context(), id, &req)
	if err != nil {
		h.handleInvoiceError(w, err, "mark invoice paid")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// UpdateStatus godoc
// @Summary Update an invoice's status
// @Description Moves the invoice along its state machine. Setting paid stamps the payment date if missing.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param status body domain.UpdateInvoiceStatusRequest true "New status"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /api/v1/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var req domain.UpdateInvoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleInvoiceError(w, err, "update invoice status")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// Delete godoc
// @Summary Delete an invoice
// @Description Deletes the invoice and reverts the linked order from invoiced back to completed.
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /api/v1/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(r.Context(), id); err != nil {
		h.handleInvoiceError(w, err, "delete invoice")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleInvoiceError maps service errors to HTTP responses
func (h *InvoiceHandler) handleInvoiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound):
		respondWithError(w, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, service.ErrOrderNotFound):
		respondWithError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+operation, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
