package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hfn-events/event-report-bot/internal/model"
)

// DefaultCollection holds one document per event report.
const DefaultCollection = "event-summary"

// recordDocument is the stored shape: the record nested under "entry".
type recordDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Entry     model.EventRecord  `bson:"entry"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func newRecordDocument(rec model.EventRecord, now time.Time) recordDocument {
	return recordDocument{
		ID:        primitive.NewObjectID(),
		Entry:     rec,
		CreatedAt: now.UTC(),
	}
}

// MongoStore is the durable record store.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetRetryWrites(false)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	if collection == "" {
		collection = DefaultCollection
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Insert writes rec as one new document. Retryable writes are disabled on
// the client so that a failure surfaces immediately.
func (s *MongoStore) Insert(ctx context.Context, rec model.EventRecord) error {
	if _, err := s.collection.InsertOne(ctx, newRecordDocument(rec, time.Now())); err != nil {
		return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
