package service_test

import (
	"context"
	"testing"

	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderDirect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := createTestClient(t, env)
	product := createTestProduct(t, env, "12.50")

	order, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
		ClientID: client.ID,
		Items: []domain.LineItemRequest{
			{ProductID: product.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-00001", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Nil(t, order.QuoteID)
	decEqual(t, "50.00", order.Total)
}

func TestCreateOrderFromQuoteReferenceFlipsQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)
	product := createTestProduct(t, env, "5.00")

	order, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
		ClientID: quote.ClientID,
		QuoteID:  &quote.ID,
		Items: []domain.LineItemRequest{
			{ProductID: product.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, order.QuoteID)
	assert.Equal(t, quote.ID, *order.QuoteID)

	// Referencing a quote converts it in the same transaction.
	converted, err := env.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusConvertedToOrder, converted.Status)
}

func TestCreateSecondOrderForQuoteFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)
	product := createTestProduct(t, env, "5.00")

	_, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
		ClientID: order.ClientID,
		QuoteID:  order.QuoteID,
		Items: []domain.LineItemRequest{
			{ProductID: product.ID, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, service.ErrQuoteAlreadyOrdered)
}

func TestCreateOrderForRejectedQuoteFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)
	_, err := env.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusRejected)
	require.NoError(t, err)

	product := createTestProduct(t, env, "5.00")
	_, err = env.orders.Create(ctx, &domain.CreateOrderRequest{
		ClientID: quote.ClientID,
		QuoteID:  &quote.ID,
		Items: []domain.LineItemRequest{
			{ProductID: product.ID, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, service.ErrQuoteRejected)
}

func TestUpdateOrderReplacesItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)
	product := createTestProduct(t, env, "9.99")

	updated, err := env.orders.Update(ctx, order.ID, &domain.UpdateOrderRequest{
		Items: []domain.LineItemRequest{
			{ProductID: product.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	decEqual(t, "29.97", updated.Total)
}

func TestUpdateCompletedOrderFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)
	_, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusInProcess)
	require.NoError(t, err)
	_, err = env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)

	product := createTestProduct(t, env, "1.00")
	_, err = env.orders.Update(ctx, order.ID, &domain.UpdateOrderRequest{
		Items: []domain.LineItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrOrderNotEditable)
}

func TestUpdateInvoicedOrderFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)
	_, err := env.orders.CreateInvoice(ctx, order.ID, nil)
	require.NoError(t, err)

	product := createTestProduct(t, env, "1.00")
	_, err = env.orders.Update(ctx, order.ID, &domain.UpdateOrderRequest{
		Items: []domain.LineItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrOrderNotEditable)
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)

	// pending cannot jump straight to completed.
	_, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, service.ErrIllegalTransition)

	inProcess, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusInProcess)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProcess, inProcess.Status)

	completed, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, completed.Status)

	// Completed is terminal for direct status changes.
	_, err = env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, service.ErrIllegalTransition)

	// Self-transition is a no-op, not an error.
	same, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, same.Status)
}

func TestUpdateOrderStatusReservesInvoiced(t *testing.T) {
	env := newTestEnv(t)

	order := createTestOrder(t, env)

	_, err := env.orders.UpdateStatus(context.Background(), order.ID, domain.OrderStatusInvoiced)
	assert.ErrorIs(t, err, service.ErrStatusReserved)
}

func TestDeleteOrderRevertsQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)
	require.NotNil(t, order.QuoteID)

	require.NoError(t, env.orders.Delete(ctx, order.ID))

	_, err := env.orders.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)

	// The source quote becomes convertible again.
	quote, err := env.quotes.GetByID(ctx, *order.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusAccepted, quote.Status)

	again, err := env.quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, again.ID)
}

func TestDeleteInvoicedOrderFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)
	_, err := env.orders.CreateInvoice(ctx, order.ID, nil)
	require.NoError(t, err)

	err = env.orders.Delete(ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrOrderInvoiced)
}

func TestCreateInvoiceForOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)

	invoice, err := env.orders.CreateInvoice(ctx, order.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "INV-00001", invoice.InvoiceNumber)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.Equal(t, order.ID, invoice.OrderID)
	assert.Equal(t, order.ClientID, invoice.ClientID)
	// The total is copied from the order, never recomputed.
	decEqual(t, order.Total.StringFixed(2), invoice.Total)

	invoiced, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInvoiced, invoiced.Status)
	require.NotNil(t, invoiced.InvoiceID)
	assert.Equal(t, invoice.ID, *invoiced.InvoiceID)
}

func TestCreateInvoiceWithExplicitDueDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)

	dueDate := "2026-12-24"
	invoice, err := env.orders.CreateInvoice(ctx, order.ID, &domain.CreateInvoiceRequest{
		DueDate: &dueDate,
		Notes:   "christmas terms",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-12-24T00:00:00Z", invoice.DueDate)
	assert.Equal(t, "christmas terms", invoice.Notes)
}

func TestCreateInvoiceTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)

	_, err := env.orders.CreateInvoice(ctx, order.ID, nil)
	require.NoError(t, err)

	_, err = env.orders.CreateInvoice(ctx, order.ID, nil)
	assert.ErrorIs(t, err, service.ErrOrderAlreadyInvoiced)
}

func TestCreateInvoiceForCancelledOrderFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := createTestOrder(t, env)
	_, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = env.orders.CreateInvoice(ctx, order.ID, nil)
	assert.ErrorIs(t, err, service.ErrOrderCancelled)
}
