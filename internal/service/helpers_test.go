package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/database"
	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/repository"
	"github.com/nordvik-as/sales-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full service graph against an in-memory database,
// mirroring the composition in cmd/api.
type testEnv struct {
	db       *gorm.DB
	numbers  *service.NumberSequenceService
	catalog  *service.CatalogService
	quotes   *service.QuoteService
	orders   *service.OrderService
	invoices *service.InvoiceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database
	// and serializes concurrent access the way a shared counter row would.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	log := zap.NewNop()

	clientRepo := repository.NewClientRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	productRepo := repository.NewProductRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewNumberSequenceRepository(db)

	numbers := service.NewNumberSequenceService(sequenceRepo, log)
	catalog := service.NewCatalogService(clientRepo, employeeRepo, productRepo, log)
	quotes := service.NewQuoteService(db, quoteRepo, clientRepo, employeeRepo, productRepo, orderRepo, numbers, log)
	orders := service.NewOrderService(db, orderRepo, quoteRepo, clientRepo, employeeRepo, productRepo, invoiceRepo, numbers, log)
	invoices := service.NewInvoiceService(db, invoiceRepo, orderRepo, numbers, 30, log)

	quotes.SetOrderCreator(orders)
	orders.SetInvoiceCreator(invoices)

	return &testEnv{
		db:       db,
		numbers:  numbers,
		catalog:  catalog,
		quotes:   quotes,
		orders:   orders,
		invoices: invoices,
	}
}

func createTestClient(t *testing.T, env *testEnv) *domain.ClientDTO {
	t.Helper()
	suffix := uuid.NewString()[:8]
	client, err := env.catalog.CreateClient(context.Background(), &domain.CreateClientRequest{
		Name:      "Fjordkraft AS " + suffix,
		OrgNumber: "NO-" + suffix,
		Email:     fmt.Sprintf("post+%s@fjordkraft.no", suffix),
	})
	require.NoError(t, err)
	return client
}

func createTestEmployee(t *testing.T, env *testEnv) *domain.EmployeeDTO {
	t.Helper()
	suffix := uuid.NewString()[:8]
	employee, err := env.catalog.CreateEmployee(context.Background(), &domain.CreateEmployeeRequest{
		FirstName: "Kari",
		LastName:  "Nordmann",
		Email:     fmt.Sprintf("kari.nordmann+%s@nordvik.no", suffix),
	})
	require.NoError(t, err)
	return employee
}

func createTestProduct(t *testing.T, env *testEnv, price string) *domain.ProductDTO {
	t.Helper()
	suffix := uuid.NewString()[:8]
	product, err := env.catalog.CreateProduct(context.Background(), &domain.CreateProductRequest{
		Name:  "Consulting hour " + suffix,
		SKU:   "SKU-" + suffix,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return product
}

// createTestQuote creates a draft quote with two lines: 3 × 10.00 and
// 1 × 25.00, so the expected total is 55.00.
func createTestQuote(t *testing.T, env *testEnv) *domain.QuoteDTO {
	t.Helper()
	client := createTestClient(t, env)
	employee := createTestEmployee(t, env)
	cheap := createTestProduct(t, env, "10.00")
	dear := createTestProduct(t, env, "25.00")

	quote, err := env.quotes.Create(context.Background(), &domain.CreateQuoteRequest{
		ClientID:   client.ID,
		EmployeeID: employee.ID,
		Items: []domain.LineItemRequest{
			{ProductID: cheap.ID, Quantity: 3},
			{ProductID: dear.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return quote
}

// createTestOrder converts a fresh quote into an order.
func createTestOrder(t *testing.T, env *testEnv) *domain.OrderDTO {
	t.Helper()
	quote := createTestQuote(t, env)
	order, err := env.quotes.ConvertToOrder(context.Background(), quote.ID)
	require.NoError(t, err)
	return order
}

func decEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "amount = %s, want %s", got, want)
}
