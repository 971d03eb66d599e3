package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetClient(t *testing.T) {
	env := newTestEnv(t)

	client := createTestClient(t, env)
	assert.Equal(t, "Norway", client.Country)
	assert.True(t, client.IsActive)

	found, err := env.catalog.GetClient(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.Name, found.Name)

	_, err = env.catalog.GetClient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrClientNotFound)
}

func TestEmployeeFullName(t *testing.T) {
	env := newTestEnv(t)

	employee := createTestEmployee(t, env)
	assert.Equal(t, "Kari Nordmann", employee.FullName)
}

func TestProductDefaults(t *testing.T) {
	env := newTestEnv(t)

	product := createTestProduct(t, env, "199.00")
	assert.Equal(t, "stk", product.Unit)
	assert.Equal(t, "NOK", product.Currency)
	decEqual(t, "199.00", product.Price)
}

func TestListClientsPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createTestClient(t, env)
	}

	page, total, err := env.catalog.ListClients(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)

	last, total, err := env.catalog.ListClients(ctx, 3, 2, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, last, 1)
}
