package domain

import "context"

// Store bundles the repositories of one storage backend.
type Store interface {
	Events() EventRepository
	Participants() ParticipantRepository
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
