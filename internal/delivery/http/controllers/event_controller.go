package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/domain"
	"eventregistration/internal/validation"
)

const (
	msgEventNotFound = "Event not found."
	msgEventDeleted  = "Event deleted successfully"
)

// CreateEventRequest is the request body for POST /api/events. eventDate is a date string.
type CreateEventRequest struct {
	ImgURL      string `json:"imgUrl"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"eventDate"`
	Organizer   string `json:"organizer"`
}

func (req CreateEventRequest) toInput() (domain.NewEventInput, error) {
	in := domain.NewEventInput{
		ImgURL:      req.ImgURL,
		Title:       req.Title,
		Description: req.Description,
		Organizer:   req.Organizer,
	}
	if req.EventDate != "" {
		d, err := validation.ParseDate(req.EventDate)
		if err != nil {
			return in, err
		}
		in.EventDate = d
	}
	return in, nil
}

// UpdateEventRequest is the request body for PATCH /api/events/{eventId}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	ImgURL      *string `json:"imgUrl"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"eventDate"`
	Organizer   *string `json:"organizer"`
}

func (req UpdateEventRequest) toPatch() (domain.EventPatch, error) {
	patch := domain.EventPatch{
		ImgURL:      req.ImgURL,
		Title:       req.Title,
		Description: req.Description,
		Organizer:   req.Organizer,
	}
	if req.EventDate != nil {
		// An empty date is left zero so validation reports the missing field.
		var d time.Time
		if *req.EventDate != "" {
			parsed, err := validation.ParseDate(*req.EventDate)
			if err != nil {
				return patch, err
			}
			d = parsed
		}
		patch.EventDate = &d
	}
	return patch, nil
}

// DeleteEventResponse is the response body for DELETE /api/events/{eventId}.
type DeleteEventResponse struct {
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents handles GET /api/events?page=&limit=&sortField=&sortOrder=.
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, err := c.Service.ListEvents(r.Context(), helpers.ParseEventListParams(r))
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, page)
}

// CreateEvent handles POST /api/events. Every failure is reported as 400.
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), in)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// GetEvent handles GET /api/events/{eventId}.
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEventByID(r.Context(), r.PathValue("eventId"))
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PATCH /api/events/{eventId}.
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), r.PathValue("eventId"), patch)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{eventId}.
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.DeleteEvent(r.Context(), r.PathValue("eventId"))
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, DeleteEventResponse{Message: msgEventDeleted, EventID: event.ID})
}

// writeEventError maps errors of the single-event routes. Malformed ids are internal errors.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, msgEventNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		c.internalError(w, r, err)
	}
}

func (c *EventController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, err.Error())
}
