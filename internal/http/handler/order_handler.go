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

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// Create godoc
// @Summary Create a new order
// @Description Creates an order, optionally referencing an accepted quote. A referenced quote is marked converted in the same transaction.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body domain.CreateOrderRequest true "Order to create"
// @Success 201 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		h.handleOrderError(w, err, "create order")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/orders/%s", order.ID))
	respondJSON(w, http.StatusCreated, order)
}

// GetByID godoc
// @Summary Get an order by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		h.handleOrderError(w, err, "get order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GetByNumber godoc
// @Summary Get an order by its document number
// @Tags orders
// @Produce json
// @Param number path string true "Order number, e.g. ORD-00042"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Router /api/v1/orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		respondWithError(w, http.StatusBadRequest, "Order number is required")
		return
	}

	order, err := h.orderService.GetByNumber(r.Context(), number)
	if err != nil {
		h.handleOrderError(w, err, "get order by number")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// List godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param clientId query string false "Filter by client ID"
// @Param status query string false "Filter by status" Enums(pending, in_process, completed, cancelled, invoiced)
// @Param from query string false "Created on or after this date (YYYY-MM-DD)"
// @Param to query string false "Created on or before this date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
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

	var status *domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.OrderStatus(raw)
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

	orders, total, err := h.orderService.List(r.Context(), page, pageSize, clientID, status, from, to)
	if err != nil {
		h.handleOrderError(w, err, "list orders")
		return
	}

	respondJSON(w, http.StatusOK, paginated(orders, total, page, pageSize))
}

// Update godoc
// @Summary Update an order
// @Description Replaces the order's line items and recomputes the total. Invoiced and completed orders are immutable to edits.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param order body domain.UpdateOrderRequest true "Updated order"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /api/v1/orders/{id} [put]
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req domain.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleOrderError(w, err, "update order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Update an order's status
// @Description Moves the order along its transition table. The invoiced status is set by invoice creation, not here.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body domain.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /api/v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req domain.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleOrderError(w, err, "update order status")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// CreateInvoice godoc
// @Summary Create an invoice for an order
// @Description Creates the order's invoice and marks the order invoiced in one transaction. At most one invoice per order.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param invoice body domain.CreateInvoiceRequest false "Invoice options"
// @Success 201 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /api/v1/orders/{id}/invoice [post]
func (h *OrderHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req domain.CreateInvoiceRequest
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

	invoice, err := h.orderService.CreateInvoice(r.Context(), id, &req)
	if err != nil {
		h.handleOrderError(w, err, "create invoice")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/invoices/%s", invoice.ID))
	respondJSON(w, http.StatusCreated, invoice)
}

// Delete godoc
// @Summary Delete an order
// @Description Deletes an order and its items. Invoiced orders cannot be deleted. A quote the order came from reverts to accepted.
// @Tags orders
// @Param id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /api/v1/orders/{id} [delete]
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		h.handleOrderError(w, err, "delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleOrderError maps service errors to HTTP responses
func (h *OrderHandler) handleOrderError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondWithError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrQuoteNotFound):
		respondWithError(w, http.StatusNotFound, "Quote not found")
	case errors.Is(err, service.ErrClientNotFound):
		respondWithError(w, http.StatusNotFound, "Client not found")
	case errors.Is(err, service.ErrEmployeeNotFound):
		respondWithError(w, http.StatusNotFound, "Employee not found")
	case errors.Is(err, service.ErrProductNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrOrderNotEditable):
		respondWithError(w, http.StatusConflict, "Order can no longer be edited")
	case errors.Is(err, service.ErrOrderInvoiced):
		respondWithError(w, http.StatusConflict, "An invoiced order cannot be deleted")
	case errors.Is(err, service.ErrQuoteRejected):
		respondWithError(w, http.StatusBadRequest, "A rejected quote cannot be ordered")
	case errors.Is(err, service.ErrQuoteAlreadyOrdered):
		respondWithError(w, http.StatusBadRequest, "Quote already has an order")
	case errors.Is(err, service.ErrOrderCancelled):
		respondWithError(w, http.StatusBadRequest, "A cancelled order cannot be invoiced")
	case errors.Is(err, service.ErrOrderAlreadyInvoiced):
		respondWithError(w, http.StatusBadRequest, "Order has already been invoiced")
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
