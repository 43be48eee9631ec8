package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *Repository {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	repo, err := NewRepository(&Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("./migrations/postgres"))
	return repo
}

func TestPostgres_CheckoutWritesAndConstraints(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	n, err := repo.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, 13, n)

	page, err := repo.ListProducts(ctx, domain.ProductFilter{Search: "SEIKO", Page: 1, PageSize: 12})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	watch := page.Products[0]

	order := newOrder(domain.OrderItem{ProductID: watch.ID, ProductName: watch.Name, ProductPrice: watch.Price, Quantity: 3})
	require.NoError(t, repo.InTx(ctx, func(tx TxStore) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.InsertOrderItems(ctx, order); err != nil {
			return err
		}
		order.CalculateTotals()
		order.PaymentStatus = domain.PaymentStatusCompleted
		order.OrderStatus = domain.OrderStatusConfirmed
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}
		return tx.InsertOutboxEvent(ctx, &OutboxEvent{
			AggregateID: order.ID,
			EventType:   EventOrderConfirmed,
			Payload:     []byte(`{"order_id":"` + order.ID.String() + `"}`),
		})
	}))

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "1350.00", domain.FormatMoney(got.Subtotal))
	assert.Equal(t, "108.00", domain.FormatMoney(got.Tax))
	assert.Equal(t, "1458.00", domain.FormatMoney(got.Total))
	require.Len(t, got.Items, 1)

	events, err := repo.GetUnprocessedEvents(ctx, 100)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].AggregateID)

	assert.ErrorIs(t, repo.DeleteProduct(ctx, watch.ID), ErrProductInUse)
	assert.ErrorIs(t, repo.CreateCategory(ctx, &domain.Category{Name: "Luxury"}), ErrDuplicate)

	_, err = repo.GetOrderByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
