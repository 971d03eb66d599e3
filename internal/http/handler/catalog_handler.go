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

// CatalogHandler handles HTTP requests for clients, employees and products
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// CreateClient godoc
// @Summary Create a new client
// @Tags catalog
// @Accept json
// @Produce json
// @Param client body domain.CreateClientRequest true "Client to create"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Router /api/v1/clients [post]
func (h *CatalogHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.catalogService.CreateClient(r.Context(), &req)
	if err != nil {
		h.handleCatalogError(w, err, "create client")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/clients/%s", client.ID))
	respondJSON(w, http.StatusCreated, client)
}

// GetClient godoc
// @Summary Get a client by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientDTO
// @Failure 404 {object} domain.APIError
// @Router /api/v1/clients/{id} [get]
func (h *CatalogHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	client, err := h.catalogService.GetClient(r.Context(), id)
	if err != nil {
		h.handleCatalogError(w, err, "get client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// ListClients godoc
// @Summary List clients
// @Tags catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param activeOnly query bool false "Only active clients"
// @Success 200 {object} domain.PaginatedResponse
// @Router /api/v1/clients [get]
func (h *CatalogHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	clients, total, err := h.catalogService.ListClients(r.Context(), page, pageSize, activeOnly)
	if err != nil {
		h.handleCatalogError(w, err, "list clients")
		return
	}

	respondJSON(w, http.StatusOK, paginated(clients, total, page, pageSize))
}

// CreateEmployee godoc
// @Summary Create a new employee
// @Tags catalog
// @Accept json
// @Produce json
// @Param employee body domain.CreateEmployeeRequest true "Employee to create"
// @Success 201 {object} domain.EmployeeDTO
// @Failure 400 {object} domain.APIError
// @Router /api/v1/employees [post]
func (h *CatalogHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	employee, err := h.catalogService.CreateEmployee(r.Context(), &req)
	if err != nil {
		h.handleCatalogError(w, err, "create employee")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/employees/%s", employee.ID))
	respondJSON(w, http.StatusCreated, employee)
}

// GetEmployee godoc
// @Summary Get an employee by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} domain.EmployeeDTO
// @Failure 404 {object} domain.APIError
// @Router /api/v1/employees/{id} [get]
func (h *CatalogHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}

	employee, err := h.catalogService.GetEmployee(r.Context(), id)
	if err != nil {
		h.handleCatalogError(w, err, "get employee")
		return
	}

	respondJSON(w, http.StatusOK, employee)
}

// ListEmployees godoc
// @Summary List employees
// @Tags catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param activeOnly query bool false "Only active employees"
// @Success 200 {object} domain.PaginatedResponse
// @Router /api/v1/employees [get]
func (h *CatalogHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	employees, total, err := h.catalogService.ListEmployees(r.Context(), page, pageSize, activeOnly)
	if err != nil {
		h.handleCatalogError(w, err, "list employees")
		return
	}

	respondJSON(w, http.StatusOK, paginated(employees, total, page, pageSize))
}

// CreateProduct godoc
// @Summary Create a new product
// @Tags catalog
// @Accept json
// @Produce json
// @Param product body domain.CreateProductRequest true "Product to create"
// @Success 201 {object} domain.ProductDTO
// @Failure 400 {object} domain.APIError
// @Router /api/v1/products [post]
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), &req)
	if err != nil {
		h.handleCatalogError(w, err, "create product")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/products/%s", product.ID))
	respondJSON(w, http.StatusCreated, product)
}

// GetProduct godoc
// @Summary Get a product by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.APIError
// @Router /api/v1/products/{id} [get]
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		h.handleCatalogError(w, err, "get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// ListProducts godoc
// @Summary List products
// @Tags catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param activeOnly query bool false "Only active products"
// @Success 200 {object} domain.PaginatedResponse
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	products, total, err := h.catalogService.ListProducts(r.Context(), page, pageSize, activeOnly)
	if err != nil {
		h.handleCatalogError(w, err, "list products")
		return
	}

	respondJSON(w, http.StatusOK, paginated(products, total, page, pageSize))
}

// handleCatalogError maps service errors to HTTP responses
func (h *CatalogHandler) handleCatalogError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		respondWithError(w, http.StatusNotFound, "Client not found")
	case errors.Is(err, service.ErrEmployeeNotFound):
		respondWithError(w, http.StatusNotFound, "Employee not found")
	case errors.Is(err, service.ErrProductNotFound):
		respondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+operation, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
