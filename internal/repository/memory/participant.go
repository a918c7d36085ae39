package memory

import (
	"context"
	"strings"
	"sync"

	"eventregistration/internal/domain"
)

// participantStore keeps participants in insertion order, which is also registration order.
type participantStore struct {
	store []domain.Participant
	sync.RWMutex
}

func newParticipantStore() *participantStore {
	return &participantStore{}
}

func (s *participantStore) Create(_ context.Context, p *domain.Participant) error {
	if !domain.IsValidID(p.EventID) {
		return domain.InvalidID(p.EventID)
	}
	s.Lock()
	defer s.Unlock()

	p.ID = domain.NewID()
	s.store = append(s.store, *p)
	return nil
}

func (s *participantStore) ListByEventID(_ context.Context, eventID, search string) ([]*domain.Participant, error) {
	if !domain.IsValidID(eventID) {
		return nil, domain.InvalidID(eventID)
	}
	s.RLock()
	defer s.RUnlock()

	needle := strings.ToLower(search)
	participants := []*domain.Participant{}
	for _, p := range s.store {
		if p.EventID != eventID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.FullName), needle) &&
			!strings.Contains(strings.ToLower(p.Email), needle) {
			continue
		}
		participants = append(participants, &p)
	}
	return participants, nil
}
