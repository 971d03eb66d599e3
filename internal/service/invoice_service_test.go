package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestInvoice invoices a fresh order and returns both.
func createTestInvoice(t *testing.T, env *testEnv) (*domain.InvoiceDTO, *domain.OrderDTO) {
	t.Helper()
	order := createTestOrder(t, env)
	invoice, err := env.orders.CreateInvoice(context.Background(), order.ID, nil)
	require.NoError(t, err)
	return invoice, order
}

func TestInvoiceDefaultDueDate(t *testing.T) {
	env := newTestEnv(t)

	invoice, _ := createTestInvoice(t, env)

	dueDate, err := time.Parse("2006-01-02T15:04:05Z", invoice.DueDate)
	require.NoError(t, err)

	expected := time.Now().AddDate(0, 0, 30)
	assert.WithinDuration(t, expected, dueDate, 24*time.Hour)
}

func TestMarkInvoicePaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	invoice, _ := createTestInvoice(t, env)

	paid, err := env.invoices.MarkPaid(ctx, invoice.ID, &domain.MarkInvoicePaidRequest{
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, "bank_transfer", paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)
}

func TestMarkInvoicePaidIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	invoice, _ := createTestInvoice(t, env)

	_, err := env.invoices.MarkPaid(ctx, invoice.ID, nil)
	require.NoError(t, err)

	paymentDate := "2026-08-01"
	paid, err := env.invoices.MarkPaid(ctx, invoice.ID, &domain.MarkInvoicePaidRequest{
		PaymentDate:   &paymentDate,
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, "card", paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "2026-08-01T00:00:00Z", *paid.PaidAt)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	invoice, _ := createTestInvoice(t, env)

	overdue, err := env.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOverdue, overdue.Status)

	// An overdue invoice can still be paid; the payment time is stamped.
	paid, err := env.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	// Paid is terminal.
	_, err = env.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusPending)
	assert.ErrorIs(t, err, service.ErrIllegalTransition)

	_, err = env.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatus("void"))
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestSweepOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pastDue, _ := createTestInvoice(t, env)
	current, _ := createTestInvoice(t, env)
	settled, _ := createTestInvoice(t, env)

	// Backdate one pending and the paid invoice past their due dates.
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, env.db.Model(&domain.Invoice{}).
		Where("id IN ?", []string{pastDue.ID.String(), settled.ID.String()}).
		Update("due_date", yesterday).Error)

	_, err := env.invoices.MarkPaid(ctx, settled.ID, nil)
	require.NoError(t, err)

	changed, err := env.invoices.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	swept, err := env.invoices.GetByID(ctx, pastDue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOverdue, swept.Status)

	untouched, err := env.invoices.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, untouched.Status)

	// Paid invoices past due are never reclassified.
	paid, err := env.invoices.GetByID(ctx, settled.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)

	// A second sweep finds nothing new.
	changed, err = env.invoices.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	overdue, err := env.invoices.GetOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, pastDue.ID, overdue[0].ID)
}

func TestDeleteInvoiceRevertsOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	invoice, order := createTestInvoice(t, env)

	require.NoError(t, env.invoices.Delete(ctx, invoice.ID))

	_, err := env.invoices.GetByID(ctx, invoice.ID)
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)

	reverted, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, reverted.Status)

	// The order can be invoiced again.
	_, err = env.orders.CreateInvoice(ctx, order.ID, nil)
	require.NoError(t, err)
}

func TestGetInvoiceByNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	invoice, _ := createTestInvoice(t, env)

	found, err := env.invoices.GetByNumber(ctx, invoice.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)

	_, err = env.invoices.GetByNumber(ctx, "INV-99999")
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}

func TestListInvoicesByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, _ := createTestInvoice(t, env)
	second, _ := createTestInvoice(t, env)

	_, err := env.invoices.MarkPaid(ctx, second.ID, nil)
	require.NoError(t, err)

	status := domain.InvoiceStatusPending
	pending, total, err := env.invoices.List(ctx, 1, 20, nil, &status, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}

func TestListInvoicesByDueDateRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	soonDue := "2026-09-10"
	soon, err := env.orders.CreateInvoice(ctx, createTestOrder(t, env).ID, &domain.CreateInvoiceRequest{
		DueDate: &soonDue,
	})
	require.NoError(t, err)

	laterDue := "2026-12-01"
	later, err := env.orders.CreateInvoice(ctx, createTestOrder(t, env).ID, &domain.CreateInvoiceRequest{
		DueDate: &laterDue,
	})
	require.NoError(t, err)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	september, total, err := env.invoices.List(ctx, 1, 20, nil, nil, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, september, 1)
	assert.Equal(t, soon.ID, september[0].ID)

	rest, total, err := env.invoices.List(ctx, 1, 20, nil, nil, &to, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rest, 1)
	assert.Equal(t, later.ID, rest[0].ID)
}

// Full lifecycle: quote -> order -> invoice -> paid, amounts preserved end
// to end.
func TestQuoteToPaidInvoiceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)
	decEqual(t, "55.00", quote.Total)

	order, err := env.quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)
	decEqual(t, "55.00", order.Total)

	invoice, err := env.orders.CreateInvoice(ctx, order.ID, nil)
	require.NoError(t, err)
	decEqual(t, "55.00", invoice.Total)

	paid, err := env.invoices.MarkPaid(ctx, invoice.ID, &domain.MarkInvoicePaidRequest{
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)

	convertedQuote, err := env.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusConvertedToOrder, convertedQuote.Status)

	invoicedOrder, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInvoiced, invoicedOrder.Status)
}
