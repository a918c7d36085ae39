package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"eventregistration/internal/domain"
)

// DefaultDatabase is used when neither the connection string nor the caller names one.
const DefaultDatabase = "event-registration"

// store contains the MongoDB based repositories.
type store struct {
	client       *mongo.Client
	events       domain.EventRepository
	participants domain.ParticipantRepository
}

// Open connects to uri, verifies the connection and creates the indexes. A database
// named in uri wins over database; when both are empty DefaultDatabase is used.
func Open(ctx context.Context, uri, database string) (domain.Store, error) {
	opts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(databaseName(uri, database))
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return NewStore(client, db), nil
}

// NewStore creates a MongoDB based domain.Store on db.
func NewStore(client *mongo.Client, db *mongo.Database) domain.Store {
	return &store{
		client:       client,
		events:       NewEventRepository(db),
		participants: NewParticipantRepository(db),
	}
}

func (s *store) Events() domain.EventRepository {
	return s.events
}

func (s *store) Participants() domain.ParticipantRepository {
	return s.participants
}

func (s *store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func databaseName(uri, fallback string) string {
	if cs, err := connstring.ParseAndValidate(uri); err == nil && cs.Database != "" {
		return cs.Database
	}
	if fallback != "" {
		return fallback
	}
	return DefaultDatabase
}
