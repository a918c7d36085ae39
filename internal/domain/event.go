package domain

import (
	"context"
	"time"
)

// Event is a listed event that participants can register for.
type Event struct {
	ID          string    `json:"_id"`
	ImgURL      string    `json:"imgUrl"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
	Organizer   string    `json:"organizer"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(in NewEventInput, createdAt, updatedAt time.Time) *Event {
	return &Event{
		ImgURL:      in.ImgURL,
		Title:       in.Title,
		Description: in.Description,
		EventDate:   in.EventDate,
		Organizer:   in.Organizer,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// NewEventInput holds the fields required to create an event. All five are required.
type NewEventInput struct {
	ImgURL      string    `validate:"required"`
	Title       string    `validate:"required"`
	Description string    `validate:"required"`
	EventDate   time.Time `validate:"required"`
	Organizer   string    `validate:"required"`
}

// EventPatch holds optional fields for a partial update. Nil fields are left unchanged.
type EventPatch struct {
	ImgURL      *string
	Title       *string
	Description *string
	EventDate   *time.Time
	Organizer   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.ImgURL == nil && p.Title == nil && p.Description == nil && p.EventDate == nil && p.Organizer == nil
}

// Apply copies the set fields of p onto e.
func (p EventPatch) Apply(e *Event) {
	if p.ImgURL != nil {
		e.ImgURL = *p.ImgURL
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.Organizer != nil {
		e.Organizer = *p.Organizer
	}
}

// Sort orders and defaults for event listing.
const (
	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultEventSortField = "eventDate"
	DefaultEventSortOrder = SortAsc
	DefaultEventPageSize  = 10
	MaxEventPageSize      = 100
)

// EventSortFields lists the fields events can be sorted by, using their JSON names.
var EventSortFields = []string{"title", "eventDate", "organizer", "description", "imgUrl", "createdAt", "updatedAt"}

// IsEventSortField reports whether field is one of EventSortFields.
func IsEventSortField(field string) bool {
	for _, f := range EventSortFields {
		if f == field {
			return true
		}
	}
	return false
}

// EventListParams selects one page of events in a given order.
type EventListParams struct {
	PaginationParams
	SortField string
	SortOrder string
}

// Normalize clamps the page and size and replaces unknown sort settings with the defaults.
func (p EventListParams) Normalize() EventListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultEventPageSize
	}
	if p.PageSize > MaxEventPageSize {
		p.PageSize = MaxEventPageSize
	}
	if !IsEventSortField(p.SortField) {
		p.SortField = DefaultEventSortField
	}
	if p.SortOrder != SortDesc {
		p.SortOrder = SortAsc
	}
	return p
}

// Descending reports whether the list is ordered from largest to smallest.
func (p EventListParams) Descending() bool {
	return p.SortOrder == SortDesc
}

// EventPage is one page of the event list.
type EventPage struct {
	Events      []*Event `json:"events"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
	TotalEvents int      `json:"totalEvents"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns the requested page and the total number of events.
	List(ctx context.Context, params EventListParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, patch EventPatch, updatedAt time.Time) (*Event, error)
	// Delete removes the event and returns the removed record.
	Delete(ctx context.Context, id string) (*Event, error)
}

// EventService defines event management and participant registration.
type EventService interface {
	ListEvents(ctx context.Context, params EventListParams) (*EventPage, error)
	CreateEvent(ctx context.Context, in NewEventInput) (*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id string) (*Event, error)
	RegisterParticipant(ctx context.Context, eventID string, in NewParticipantInput) (*Participant, error)
	GetParticipants(ctx context.Context, eventID, search string) ([]*Participant, error)
}
