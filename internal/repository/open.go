// Package repository selects a storage backend from a connection URL.
package repository

import (
	"context"
	"fmt"
	"net/url"

	"eventregistration/internal/domain"
	"eventregistration/internal/repository/memory"
	"eventregistration/internal/repository/mongo"
	"eventregistration/internal/repository/postgres"
)

// Backend names accepted as DATABASE_URL schemes.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongodb"
	BackendMemory   = "memory"
)

// Backend returns the backend name for rawURL.
func Backend(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}

// Open connects to the store at rawURL. mongoDatabase names the Mongo database when
// the URL does not.
func Open(ctx context.Context, rawURL, mongoDatabase string) (domain.Store, error) {
	backend, err := Backend(rawURL)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendPostgres:
		db, err := postgres.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	case BackendMongo:
		return mongo.Open(ctx, rawURL, mongoDatabase)
	default:
		return memory.NewStore(), nil
	}
}
