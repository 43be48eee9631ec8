package session

import (
	"context"
	"testing"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

func setupTestMongo(t *testing.T) *MongoStore {
	if testing.Short() {
		t.Skip("skipping mongodb container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(ctx) })

	store := NewMongoStore(db)
	require.NoError(t, store.CreateIndexes(ctx))
	return store
}

func TestMongoStore(t *testing.T) {
	store := setupTestMongo(t)
	ctx := context.Background()

	t.Run("missing session is empty", func(t *testing.T) {
		c, err := store.Load(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("round trip keeps order and prices", func(t *testing.T) {
		c := sampleCart(t)
		require.NoError(t, store.Save(ctx, "sid-1", c))

		loaded, err := store.Load(ctx, "sid-1")

		require.NoError(t, err)
		assert.Equal(t, c.ProductIDs(), loaded.ProductIDs())
		assert.Equal(t, "6499.97", domain.FormatMoney(loaded.Subtotal()))
	})

	t.Run("save twice upserts one document", func(t *testing.T) {
		c := sampleCart(t)
		require.NoError(t, store.Save(ctx, "sid-2", c))
		c.Clear()
		require.NoError(t, store.Save(ctx, "sid-2", c))

		count, err := store.collection.CountDocuments(ctx, bson.M{"session_id": "sid-2"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		loaded, err := store.Load(ctx, "sid-2")
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Len())
	})

	t.Run("corrupt document", func(t *testing.T) {
		_, err := store.collection.InsertOne(ctx, bson.M{
			"session_id": "sid-bad",
			"items":      bson.A{bson.M{"product_id": "nope", "quantity": 1, "price": "1.00"}},
		})
		require.NoError(t, err)

		_, err = store.Load(ctx, "sid-bad")
		assert.ErrorIs(t, err, ErrCorruptSession)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "sid-3", sampleCart(t)))
		require.NoError(t, store.Delete(ctx, "sid-3"))

		loaded, err := store.Load(ctx, "sid-3")
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Len())
	})
}
