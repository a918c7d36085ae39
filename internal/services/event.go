package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventregistration/internal/domain"
	"eventregistration/internal/validation"
)

// emailTimeout bounds a confirmation send. It runs detached from the request
// deadline so a slow mail provider cannot push registrations past it.
const emailTimeout = 10 * time.Second

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	validator       *validation.Validator
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewEventService returns the event service. emailService may be nil, in which case no
// confirmation emails are sent.
func NewEventService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	validator *validation.Validator,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		validator:       validator,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context, params domain.EventListParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	params = params.Normalize()
	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return &domain.EventPage{
		Events:      events,
		CurrentPage: params.Page,
		TotalPages:  params.TotalPages(total),
		TotalEvents: total,
	}, nil
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.NewEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.validator.Event(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	event := domain.NewEvent(in, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, ok := domain.NormalizeID(id)
	if !ok {
		return nil, domain.InvalidID(id)
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, ok := domain.NormalizeID(id)
	if !ok {
		return nil, domain.InvalidID(id)
	}
	if err := s.validator.EventPatch(patch); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.Update(ctx, id, patch, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, ok := domain.NormalizeID(id)
	if !ok {
		return nil, domain.InvalidID(id)
	}
	event, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete event: %w", err)
	}
	return event, nil
}

// RegisterParticipant stores a participant for eventID. The event is not required to exist.
func (s *eventService) RegisterParticipant(ctx context.Context, eventID string, in domain.NewParticipantInput) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.validator.Participant(in); err != nil {
		return nil, err
	}
	eventID, ok := domain.NormalizeID(eventID)
	if !ok {
		return nil, domain.InvalidID(eventID)
	}
	now := time.Now().UTC()
	participant := domain.NewParticipant(eventID, in, now, now)
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, fmt.Errorf("register participant: %w", err)
	}

	if s.emailService != nil {
		s.sendConfirmation(ctx, participant)
	}
	return participant, nil
}

// sendConfirmation emails the participant. Failures are logged only.
func (s *eventService) sendConfirmation(ctx context.Context, p *domain.Participant) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
	defer cancel()

	data := &domain.RegistrationConfirmationEmailData{
		Email:    p.Email,
		FullName: p.FullName,
		EventID:  p.EventID,
	}
	if event, err := s.eventRepo.GetByID(ctx, p.EventID); err == nil {
		data.EventTitle = event.Title
		data.EventDate = event.EventDate
		data.Organizer = event.Organizer
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration confirmation not sent",
			"event_id", p.EventID,
			"participant_id", p.ID,
			"err", err,
		)
	}
}

func (s *eventService) GetParticipants(ctx context.Context, eventID, search string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	eventID, ok := domain.NormalizeID(eventID)
	if !ok {
		return nil, domain.ErrInvalidEventIDFormat
	}
	participants, err := s.participantRepo.ListByEventID(ctx, eventID, search)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}
