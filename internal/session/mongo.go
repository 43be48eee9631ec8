package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cartTTL = 90 * 24 * time.Hour

type cartDocument struct {
	SessionID string          `bson:"session_id"`
	Items     []entryDocument `bson:"items"`
	CreatedAt time.Time       `bson:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

type entryDocument struct {
	ProductID string    `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
	Price     string    `bson:"price"`
	AddedAt   time.Time `bson:"added_at"`
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(database), nil
}

// MongoStore keeps one document per session in the carts collection.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection("carts")}
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cartTTL.Seconds())),
		},
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (m *MongoStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return fromDocument(doc)
}

func (m *MongoStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"items":      toDocuments(c.Entries),
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"session_id": sessionID,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.collection.UpdateOne(ctx, bson.M{"session_id": sessionID}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func toDocuments(entries []cart.Entry) []entryDocument {
	docs := make([]entryDocument, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, entryDocument{
			ProductID: e.ProductID.String(),
			Quantity:  e.Quantity,
			Price:     e.UnitPrice.String(),
			AddedAt:   e.AddedAt,
		})
	}
	return docs
}

func fromDocument(doc cartDocument) (*cart.Cart, error) {
	c := &cart.Cart{Entries: make([]cart.Entry, 0, len(doc.Items)), UpdatedAt: doc.UpdatedAt}
	for _, item := range doc.Items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product id %q", ErrCorruptSession, item.ProductID)
		}
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: price %q", ErrCorruptSession, item.Price)
		}
		c.Entries = append(c.Entries, cart.Entry{
			ProductID: id,
			Quantity:  item.Quantity,
			UnitPrice: price,
			AddedAt:   item.AddedAt,
		})
	}
	c.Normalize()
	return c, nil
}
