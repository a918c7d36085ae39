package memory

import (
	"context"

	"eventregistration/internal/domain"
)

// store contains all memory-based repositories.
type store struct {
	events       *eventStore
	participants *participantStore
}

// NewStore creates a new memory-based domain.Store. Data lives for the life of the process.
func NewStore() domain.Store {
	return &store{
		events:       newEventStore(),
		participants: newParticipantStore(),
	}
}

func (s *store) Events() domain.EventRepository {
	return s.events
}

func (s *store) Participants() domain.ParticipantRepository {
	return s.participants
}

func (s *store) Ping(context.Context) error {
	return nil
}

func (s *store) Close(context.Context) error {
	return nil
}
