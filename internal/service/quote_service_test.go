package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuoteComputesTotal(t *testing.T) {
	env := newTestEnv(t)

	quote := createTestQuote(t, env)

	assert.Equal(t, domain.QuoteStatusDraft, quote.Status)
	assert.Equal(t, "QUO-00001", quote.QuoteNumber)
	require.Len(t, quote.Items, 2)
	decEqual(t, "30.00", quote.Items[0].Subtotal)
	decEqual(t, "25.00", quote.Items[1].Subtotal)
	decEqual(t, "55.00", quote.Total)
	assert.Equal(t, "NOK", quote.Currency)
}

func TestCreateQuoteUsesRequestPriceOverCatalogPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := createTestClient(t, env)
	employee := createTestEmployee(t, env)
	product := createTestProduct(t, env, "100.00")

	override := decimal.RequireFromString("80.00")
	quote, err := env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:   client.ID,
		EmployeeID: employee.ID,
		Items: []domain.LineItemRequest{
			{ProductID: product.ID, Quantity: 2, UnitPrice: &override},
		},
	})
	require.NoError(t, err)

	decEqual(t, "80.00", quote.Items[0].UnitPrice)
	decEqual(t, "160.00", quote.Total)
}

func TestCreateQuoteUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := createTestClient(t, env)
	employee := createTestEmployee(t, env)
	product := createTestProduct(t, env, "10.00")

	_, err := env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:   employee.ID,
		EmployeeID: employee.ID,
		Items:      []domain.LineItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrClientNotFound)

	_, err = env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:   client.ID,
		EmployeeID: client.ID,
		Items:      []domain.LineItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrEmployeeNotFound)

	_, err = env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:   client.ID,
		EmployeeID: employee.ID,
		Items:      []domain.LineItemRequest{{ProductID: client.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestUpdateQuoteReplacesItemsAndRecomputesTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)
	product := createTestProduct(t, env, "7.50")

	updated, err := env.quotes.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{
		Items: []domain.LineItemRequest{
			{ProductID: product.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	decEqual(t, "30.00", updated.Items[0].Subtotal)
	decEqual(t, "30.00", updated.Total)
}

func TestUpdateConvertedQuoteFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)
	_, err := env.quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)

	product := createTestProduct(t, env, "1.00")
	_, err = env.quotes.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{
		Items: []domain.LineItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrQuoteConverted)
}

func TestUpdateQuoteStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)

	accepted, err := env.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusAccepted, accepted.Status)

	rejected, err := env.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusRejected, rejected.Status)

	// Rejected is terminal.
	_, err = env.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusAccepted)
	assert.ErrorIs(t, err, service.ErrIllegalTransition)
}

func TestUpdateQuoteStatusReservesConverted(t *testing.T) {
	env := newTestEnv(t)

	quote := createTestQuote(t, env)

	_, err := env.quotes.UpdateStatus(context.Background(), quote.ID, domain.QuoteStatusConvertedToOrder)
	assert.ErrorIs(t, err, service.ErrStatusReserved)
}

func TestUpdateQuoteStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)

	quote := createTestQuote(t, env)

	_, err := env.quotes.UpdateStatus(context.Background(), quote.ID, domain.QuoteStatus("approved"))
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestConvertQuoteToOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)

	order, err := env.quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)

	assert.Equal(t, "ORD-00001", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.NotNil(t, order.QuoteID)
	assert.Equal(t, quote.ID, *order.QuoteID)
	assert.Equal(t, quote.ClientID, order.ClientID)

	// Items are copied verbatim, the total is carried over.
	require.Len(t, order.Items, 2)
	for i := range order.Items {
		assert.Equal(t, quote.Items[i].ProductID, order.Items[i].ProductID)
		assert.Equal(t, quote.Items[i].Quantity, order.Items[i].Quantity)
		decEqual(t, quote.Items[i].UnitPrice.StringFixed(2), order.Items[i].UnitPrice)
		decEqual(t, quote.Items[i].Subtotal.StringFixed(2), order.Items[i].Subtotal)
	}
	decEqual(t, "55.00", order.Total)

	converted, err := env.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusConvertedToOrder, converted.Status)
	require.NotNil(t, converted.OrderID)
	assert.Equal(t, order.ID, *converted.OrderID)
}

func TestConvertQuoteTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)

	_, err := env.quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)

	_, err = env.quotes.ConvertToOrder(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteAlreadyConverted)
}

func TestConvertRejectedQuoteFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)
	_, err := env.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusRejected)
	require.NoError(t, err)

	_, err = env.quotes.ConvertToOrder(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteRejected)
}

func TestDeleteQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)

	require.NoError(t, env.quotes.Delete(ctx, quote.ID))

	_, err := env.quotes.GetByID(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)
}

func TestDeleteConvertedQuoteFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)
	_, err := env.quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)

	err = env.quotes.Delete(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteConverted)
}

func TestGetQuoteByNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)

	found, err := env.quotes.GetByNumber(ctx, quote.QuoteNumber)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, found.ID)

	_, err = env.quotes.GetByNumber(ctx, "QUO-99999")
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)
}

func TestListQuotesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := createTestQuote(t, env)
	second := createTestQuote(t, env)
	_, err := env.quotes.UpdateStatus(ctx, second.ID, domain.QuoteStatusAccepted)
	require.NoError(t, err)

	all, total, err := env.quotes.List(ctx, 1, 20, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	status := domain.QuoteStatusDraft
	drafts, total, err := env.quotes.List(ctx, 1, 20, nil, &status, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, drafts, 1)
	assert.Equal(t, first.ID, drafts[0].ID)

	byClient, total, err := env.quotes.List(ctx, 1, 20, &second.ClientID, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byClient, 1)
	assert.Equal(t, second.ID, byClient[0].ID)
}

func TestListQuotesByDateRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := createTestQuote(t, env)
	recent := createTestQuote(t, env)

	lastMonth := time.Now().AddDate(0, -1, 0)
	require.NoError(t, env.db.Model(&domain.Quote{}).
		Where("id = ?", old.ID.String()).
		Update("created_at", lastMonth).Error)

	weekAgo := time.Now().AddDate(0, 0, -7)
	since, total, err := env.quotes.List(ctx, 1, 20, nil, nil, &weekAgo, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, since, 1)
	assert.Equal(t, recent.ID, since[0].ID)

	before, total, err := env.quotes.List(ctx, 1, 20, nil, nil, nil, &weekAgo)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, before, 1)
	assert.Equal(t, old.ID, before[0].ID)

	// from is inclusive, to is exclusive.
	boundary, total, err := env.quotes.List(ctx, 1, 20, nil, nil, &lastMonth, &lastMonth)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, boundary)
}
