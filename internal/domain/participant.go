package domain

import (
	"context"
	"time"
)

// Participant is a person registered for an event. EventID is a weak reference:
// the event may have been deleted since.
type Participant struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	DOB       time.Time `json:"dob"`
	Referral  string    `json:"referral"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewParticipant creates a new Participant for eventID. ID is set by the repository on create.
func NewParticipant(eventID string, in NewParticipantInput, createdAt, updatedAt time.Time) *Participant {
	return &Participant{
		FullName:  in.FullName,
		Email:     in.Email,
		DOB:       in.DOB,
		Referral:  in.Referral,
		EventID:   eventID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// NewParticipantInput holds the registration fields. Referral is optional free text.
type NewParticipantInput struct {
	FullName string    `validate:"required"`
	Email    string    `validate:"required,basicemail"`
	DOB      time.Time `validate:"required,notfuture"`
	Referral string
}

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	Create(ctx context.Context, p *Participant) error
	// ListByEventID returns the participants of eventID ordered by registration time.
	// A non-empty search keeps only those whose full name or email contains it, ignoring case.
	ListByEventID(ctx context.Context, eventID, search string) ([]*Participant, error)
}
