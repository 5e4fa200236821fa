// Package storage selects and opens counter storage backends.
//
// A counter location is either a filesystem path, stored as a JSON file by
// state.FileBackend, or a MongoDB connection URI (mongodb:// or
// mongodb+srv://), stored as one document by the mongodb sub-package.
//
// # Concurrency
//
// Backends do not coordinate between processes. Callers must ensure a
// single writer per location.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirosfoundation/go-chfiling/internal/storage/mongodb"
	"github.com/sirosfoundation/go-chfiling/pkg/state"
)

// DefaultDatabase is used when a MongoDB URI names no database
const DefaultDatabase = "chfiling"

// Store is a counter backend with a connection lifecycle
type Store interface {
	state.Backend
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options tunes Open
type Options struct {
	// Key identifies the counter document in MongoDB
	Key string
}

// IsMongoURI reports whether location is a MongoDB connection URI
func IsMongoURI(location string) bool {
	return strings.HasPrefix(location, "mongodb://") || strings.HasPrefix(location, "mongodb+srv://")
}

// Open returns the backend for location
func Open(ctx context.Context, location string, opts Options) (Store, error) {
	if location == "" {
		return nil, fmt.Errorf("state location is required")
	}

	if !IsMongoURI(location) {
		return &fileStore{FileBackend: state.NewFileBackend(location)}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parsing state URI: %w", err)
	}
	database := strings.TrimPrefix(u.Path, "/")
	if database == "" {
		database = DefaultDatabase
	}

	return mongodb.NewStore(ctx, &mongodb.Config{
		URI:      location,
		Database: database,
		Key:      opts.Key,
	})
}

// fileStore adds a no-op lifecycle to state.FileBackend
type fileStore struct {
	*state.FileBackend
}

func (f *fileStore) Ping(ctx context.Context) error {
	return nil
}

func (f *fileStore) Close(ctx context.Context) error {
	return nil
}
