package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"eventregistration/internal/domain"
)

type eventStore struct {
	store map[string]domain.Event
	sync.RWMutex
}

func newEventStore() *eventStore {
	return &eventStore{
		store: make(map[string]domain.Event),
	}
}

func (s *eventStore) Create(_ context.Context, e *domain.Event) error {
	s.Lock()
	defer s.Unlock()

	e.ID = domain.NewID()
	s.store[e.ID] = *e
	return nil
}

func (s *eventStore) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if !domain.IsValidID(id) {
		return nil, domain.InvalidID(id)
	}
	s.RLock()
	defer s.RUnlock()

	if e, ok := s.store[id]; ok {
		return &e, nil
	}
	return nil, domain.ErrNotFound
}

func (s *eventStore) List(_ context.Context, params domain.EventListParams) ([]*domain.Event, int, error) {
	s.RLock()
	all := make([]domain.Event, 0, len(s.store))
	for _, e := range s.store {
		all = append(all, e)
	}
	s.RUnlock()

	field := params.SortField
	if !domain.IsEventSortField(field) {
		field = domain.DefaultEventSortField
	}
	desc := params.Descending()
	sort.Slice(all, func(i, j int) bool {
		c := compareEvents(&all[i], &all[j], field)
		if c == 0 {
			return all[i].ID < all[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	events := make([]*domain.Event, 0)
	start := params.Offset()
	if start >= len(all) || params.PageSize <= 0 {
		return events, len(all), nil
	}
	end := min(start+params.PageSize, len(all))
	for i := start; i < end; i++ {
		e := all[i]
		events = append(events, &e)
	}
	return events, len(all), nil
}

func compareEvents(a, b *domain.Event, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "organizer":
		return strings.Compare(a.Organizer, b.Organizer)
	case "description":
		return strings.Compare(a.Description, b.Description)
	case "imgUrl":
		return strings.Compare(a.ImgURL, b.ImgURL)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.EventDate.Compare(b.EventDate)
	}
}

func (s *eventStore) Update(_ context.Context, id string, patch domain.EventPatch, updatedAt time.Time) (*domain.Event, error) {
	if !domain.IsValidID(id) {
		return nil, domain.InvalidID(id)
	}
	s.Lock()
	defer s.Unlock()

	e, ok := s.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !patch.IsEmpty() {
		patch.Apply(&e)
		e.UpdatedAt = updatedAt
		s.store[id] = e
	}
	return &e, nil
}

func (s *eventStore) Delete(_ context.Context, id string) (*domain.Event, error) {
	if !domain.IsValidID(id) {
		return nil, domain.InvalidID(id)
	}
	s.Lock()
	defer s.Unlock()

	e, ok := s.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(s.store, id)
	return &e, nil
}
