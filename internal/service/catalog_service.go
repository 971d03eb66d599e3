package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/mapper"
	"github.com/nordvik-as/sales-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService owns the reference data the sales documents depend on:
// clients, employees and products. Thin CRUD plus lookup-by-id; the
// document managers resolve references through it.
type CatalogService struct {
	clientRepo   *repository.ClientRepository
	employeeRepo *repository.EmployeeRepository
	productRepo  *repository.ProductRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	clientRepo *repository.ClientRepository,
	employeeRepo *repository.EmployeeRepository,
	productRepo *repository.ProductRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		clientRepo:   clientRepo,
		employeeRepo: employeeRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Clients

func (s *CatalogService) CreateClient(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	client := &domain.Client{
		Name:          req.Name,
		OrgNumber:     req.OrgNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		ContactPerson: req.ContactPerson,
		IsActive:      true,
	}
	if client.Country == "" {
		client.Country = "Norway"
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("name", client.Name))

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *CatalogService) GetClient(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *CatalogService) ListClients(ctx context.Context, page, pageSize int, activeOnly bool) ([]domain.ClientDTO, int64, error) {
	clients, total, err := s.clientRepo.List(ctx, page, pageSize, activeOnly)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, 0, len(clients))
	for i := range clients {
		dtos = append(dtos, mapper.ToClientDTO(&clients[i]))
	}
	return dtos, total, nil
}

// Employees

func (s *CatalogService) CreateEmployee(ctx context.Context, req *domain.CreateEmployeeRequest) (*domain.EmployeeDTO, error) {
	employee := &domain.Employee{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Title:      req.Title,
		Department: req.Department,
		IsActive:   true,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("name", employee.FullName()))

	dto := mapper.ToEmployeeDTO(employee)
	return &dto, nil
}

func (s *CatalogService) GetEmployee(ctx context.Context, id uuid.UUID) (*domain.EmployeeDTO, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	dto := mapper.ToEmployeeDTO(employee)
	return &dto, nil
}

func (s *CatalogService) ListEmployees(ctx context.Context, page, pageSize int, activeOnly bool) ([]domain.EmployeeDTO, int64, error) {
	employees, total, err := s.employeeRepo.List(ctx, page, pageSize, activeOnly)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	dtos := make([]domain.EmployeeDTO, 0, len(employees))
	for i := range employees {
		dtos = append(dtos, mapper.ToEmployeeDTO(&employees[i]))
	}
	return dtos, total, nil
}

// Products

func (s *CatalogService) CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.ProductDTO, error) {
	product := &domain.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Unit:        req.Unit,
		Price:       req.Price,
		Currency:    req.Currency,
		Tags:        req.Tags,
		IsActive:    true,
	}
	if product.Unit == "" {
		product.Unit = "stk"
	}
	if product.Currency == "" {
		product.Currency = "NOK"
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.String("sku", product.SKU))

	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, page, pageSize int, activeOnly bool) ([]domain.ProductDTO, int64, error) {
	products, total, err := s.productRepo.List(ctx, page, pageSize, activeOnly)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]domain.ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, mapper.ToProductDTO(&products[i]))
	}
	return dtos, total, nil
}
