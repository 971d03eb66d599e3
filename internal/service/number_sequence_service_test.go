package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumberFormat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quoteNum, err := env.numbers.GenerateQuoteNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QUO-00001", quoteNum)

	orderNum, err := env.numbers.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-00001", orderNum)

	invoiceNum, err := env.numbers.GenerateInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", invoiceNum)
}

func TestSequencesAreIndependentPerKind(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		num, err := env.numbers.GenerateQuoteNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("QUO-%05d", i), num)
	}

	// The order counter is untouched by quote issuance.
	orderNum, err := env.numbers.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-00001", orderNum)

	current, err := env.numbers.GetCurrentValue(ctx, domain.DocumentKindQuote)
	require.NoError(t, err)
	assert.Equal(t, int64(3), current)
}

func TestConcurrentGenerationYieldsDistinctNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 50

	var mu sync.Mutex
	seen := make(map[string]bool, workers)
	errs := make([]error, 0)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := env.numbers.GenerateInvoiceNumber(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			seen[num] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, seen, workers, "every caller must receive a distinct number")

	current, err := env.numbers.GetCurrentValue(ctx, domain.DocumentKindInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), current)
}

// Conversion and invoicing issue their numbers inside an open transaction.
// With the pool capped at one connection this only completes when issuance
// joins that transaction instead of waiting for a second connection.
func TestIssuanceInsideLifecycleTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quote := createTestQuote(t, env)

	order, err := env.quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-00001", order.OrderNumber)

	invoice, err := env.orders.CreateInvoice(ctx, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", invoice.InvoiceNumber)

	orderSeq, err := env.numbers.GetCurrentValue(ctx, domain.DocumentKindOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(1), orderSeq)

	invoiceSeq, err := env.numbers.GetCurrentValue(ctx, domain.DocumentKindInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), invoiceSeq)
}

func TestInitializeSequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.numbers.InitializeSequence(ctx, domain.DocumentKindQuote, 100))

	num, err := env.numbers.GenerateQuoteNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QUO-00101", num)

	// Initializing below the current value never lowers the counter.
	require.NoError(t, env.numbers.InitializeSequence(ctx, domain.DocumentKindQuote, 5))

	num, err = env.numbers.GenerateQuoteNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QUO-00102", num)
}
