// Package mongodb stores filing counters in MongoDB
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirosfoundation/go-chfiling/pkg/state"
)

// Defaults for Config
const (
	DefaultCollection = "counters"
	DefaultKey        = "default"
)

// Config holds MongoDB connection settings
type Config struct {
	URI        string
	Database   string
	Collection string
	// Key is the _id of the counter document, one per presenter installation
	Key string
}

// Store implements state.Backend with a single MongoDB document
type Store struct {
	client   *mongo.Client
	counters *mongo.Collection
	key      string
}

// counterDocument is the persisted form of state.Counters
type counterDocument struct {
	ID            string    `bson:"_id"`
	TransactionID int       `bson:"transaction_id"`
	SubmissionID  int       `bson:"submission_id"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// NewStore connects to MongoDB and verifies the connection
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	return newStore(client, cfg), nil
}

func newStore(client *mongo.Client, cfg *Config) *Store {
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	return &Store{
		client:   client,
		counters: client.Database(cfg.Database).Collection(collection),
		key:      key,
	}
}

// Key returns the _id of the counter document
func (s *Store) Key() string {
	return s.key
}

// Load reads the counter document
func (s *Store) Load(ctx context.Context) (state.Counters, error) {
	raw, err := s.counters.FindOne(ctx, bson.M{"_id": s.key}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return state.Counters{}, state.ErrStateNotFound
	}
	if err != nil {
		return state.Counters{}, fmt.Errorf("loading counters: %w", err)
	}

	var doc counterDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return state.Counters{}, fmt.Errorf("%w: %v", state.ErrStateCorrupt, err)
	}

	return state.Counters{
		TransactionID: doc.TransactionID,
		SubmissionID:  doc.SubmissionID,
	}, nil
}

// Save replaces the counter document, creating it when absent
func (s *Store) Save(ctx context.Context, c state.Counters) error {
	doc := counterDocument{
		ID:            s.key,
		TransactionID: c.TransactionID,
		SubmissionID:  c.SubmissionID,
		UpdatedAt:     time.Now().UTC(),
	}

	_, err := s.counters.ReplaceOne(ctx, bson.M{"_id": s.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving counters: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
