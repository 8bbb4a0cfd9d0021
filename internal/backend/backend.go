// Package backend selects and builds the concrete expense store.
package backend

import (
	"context"
	"fmt"

	"outlay/internal/config"
	"outlay/internal/store"
)

// Kind identifies a store engine.
type Kind string

const (
	MongoStore  Kind = "mongo"
	SQLiteStore Kind = "sqlite"
	MemoryStore Kind = "memory"
)

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the store kind is supported
func (k Kind) IsValid() bool {
	switch k {
	case MongoStore, SQLiteStore, MemoryStore:
		return true
	default:
		return false
	}
}

// CleanupFunc releases the resources a store holds.
type CleanupFunc func(ctx context.Context) error

// Result contains the store instance and optional cleanup function.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Config holds what is needed to build any of the supported stores.
type Config struct {
	Kind Kind

	// MongoDB specific
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// SQLite specific
	SQLiteDBPath string
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	kind := Kind(appConfig.StoreBackend)
	if !kind.IsValid() {
		return Config{}, fmt.Errorf("invalid store backend in config: %s", appConfig.StoreBackend)
	}

	return Config{
		Kind:            kind,
		MongoURI:        appConfig.MongoURI,
		MongoDatabase:   appConfig.MongoDatabase,
		MongoCollection: appConfig.MongoCollection,
		SQLiteDBPath:    appConfig.SQLiteDBPath,
	}, nil
}

// Validate validates the backend configuration.
func (c Config) Validate() error {
	if !c.Kind.IsValid() {
		return fmt.Errorf("invalid store kind: %s", c.Kind)
	}

	switch c.Kind {
	case MongoStore:
		if c.MongoURI == "" {
			return fmt.Errorf("MongoDB URI is required for mongo store")
		}
		if c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("MongoDB database and collection are required for mongo store")
		}
	case SQLiteStore:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite store")
		}
	case MemoryStore:
		// Nothing to validate.
	}

	return nil
}
