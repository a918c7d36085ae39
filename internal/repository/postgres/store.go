package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"eventregistration/internal/domain"
)

// store contains the PostgreSQL based repositories.
type store struct {
	db           *sql.DB
	events       domain.EventRepository
	participants domain.ParticipantRepository
}

// Open connects to the database at url with the lib/pq driver.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewStore creates a PostgreSQL based domain.Store on db.
func NewStore(db *sql.DB) domain.Store {
	return &store{
		db:           db,
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
	return s.db.PingContext(ctx)
}

func (s *store) Close(_ context.Context) error {
	return s.db.Close()
}
