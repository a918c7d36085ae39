package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testEventID = "65f1c0ffee0000000000abcd"

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event        *domain.Event
	page         *domain.EventPage
	participant  *domain.Participant
	participants []*domain.Participant
	err          error

	lastListParams  domain.EventListParams
	lastCreateInput domain.NewEventInput
	lastID          string
	lastPatch       domain.EventPatch
	lastRegister    domain.NewParticipantInput
	lastSearch      string
}

func (f *fakeEventService) ListEvents(ctx context.Context, params domain.EventListParams) (*domain.EventPage, error) {
	f.lastListParams = params
	return f.page, f.err
}

func (f *fakeEventService) CreateEvent(ctx context.Context, in domain.NewEventInput) (*domain.Event, error) {
	f.lastCreateInput = in
	return f.event, f.err
}

func (f *fakeEventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastID = id
	f.lastPatch = patch
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) RegisterParticipant(ctx context.Context, eventID string, in domain.NewParticipantInput) (*domain.Participant, error) {
	f.lastID = eventID
	f.lastRegister = in
	return f.participant, f.err
}

func (f *fakeEventService) GetParticipants(ctx context.Context, eventID, search string) ([]*domain.Participant, error) {
	f.lastID = eventID
	f.lastSearch = search
	return f.participants, f.err
}

func sampleEvent() *domain.Event {
	return &domain.Event{
		ID:          testEventID,
		ImgURL:      "https://img.example/1.png",
		Title:       "Meetup",
		Description: "Talks",
		EventDate:   time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		Organizer:   "Go Kyiv",
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) helpers.ErrorResponse {
	t.Helper()
	var body helpers.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func withEventID(req *http.Request, id string) *http.Request {
	req.SetPathValue("eventId", id)
	return req
}

func TestEventController_ListEvents(t *testing.T) {
	svc := &fakeEventService{page: &domain.EventPage{Events: []*domain.Event{sampleEvent()}, CurrentPage: 2, TotalPages: 2, TotalEvents: 9}}
	c := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/events?page=2&limit=8&sortField=title&sortOrder=desc", nil)
	rr := httptest.NewRecorder()
	c.ListEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, svc.lastListParams.Page)
	assert.Equal(t, 8, svc.lastListParams.PageSize)
	assert.Equal(t, "title", svc.lastListParams.SortField)
	assert.True(t, svc.lastListParams.Descending())

	var page map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&page))
	assert.Equal(t, float64(2), page["currentPage"])
	assert.Equal(t, float64(9), page["totalEvents"])
	events := page["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, testEventID, events[0].(map[string]any)["_id"])
}

func TestEventController_ListEventsError(t *testing.T) {
	c := NewEventController(testLogger, &fakeEventService{err: errors.New("db down")})
	rr := httptest.NewRecorder()
	c.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, 500, body.StatusCode)
	assert.Equal(t, "Internal Server Error", body.Error)
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "created",
			body:       `{"imgUrl":"https://img.example/1.png","title":"Meetup","description":"Talks","eventDate":"2026-09-01T18:00:00Z","organizer":"Go Kyiv"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "validation error",
			body:       `{"title":"Meetup"}`,
			svcErr:     domain.InvalidInput("All fields are required."),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "All fields are required.",
		},
		{
			name:       "bad date",
			body:       `{"title":"Meetup","eventDate":"next tuesday"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid date format.",
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    helpers.MsgInvalidBody,
		},
		{
			name:       "store failure is still bad request",
			body:       `{"imgUrl":"x","title":"Meetup","description":"Talks","eventDate":"2026-09-01","organizer":"Go Kyiv"}`,
			svcErr:     errors.New("create event: connection reset"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "create event: connection reset",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{event: sampleEvent(), err: tt.svcErr}
			c := NewEventController(testLogger, svc)
			rr := httptest.NewRecorder()
			c.CreateEvent(rr, httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, rr).Message)
				return
			}
			var got domain.Event
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, testEventID, got.ID)
			assert.Equal(t, "Meetup", svc.lastCreateInput.Title)
			assert.True(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC).Equal(svc.lastCreateInput.EventDate))
		})
	}
}

func TestEventController_GetEvent(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "not found", svcErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "Event not found."},
		{name: "malformed id", svcErr: domain.InvalidID("invalid-id"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{event: sampleEvent(), err: tt.svcErr}
			c := NewEventController(testLogger, svc)
			rr := httptest.NewRecorder()
			c.GetEvent(rr, withEventID(httptest.NewRequest(http.MethodGet, "/api/events/"+testEventID, nil), testEventID))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, testEventID, svc.lastID)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, rr).Message)
			}
		})
	}
}

func TestEventController_UpdateEvent(t *testing.T) {
	t.Run("partial patch", func(t *testing.T) {
		svc := &fakeEventService{event: sampleEvent()}
		c := NewEventController(testLogger, svc)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/events/"+testEventID, strings.NewReader(`{"title":"Renamed","eventDate":"2026-10-01"}`))
		c.UpdateEvent(rr, withEventID(req, testEventID))

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, svc.lastPatch.Title)
		assert.Equal(t, "Renamed", *svc.lastPatch.Title)
		require.NotNil(t, svc.lastPatch.EventDate)
		assert.True(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Equal(*svc.lastPatch.EventDate))
		assert.Nil(t, svc.lastPatch.Organizer)
	})

	t.Run("empty date is passed as zero", func(t *testing.T) {
		svc := &fakeEventService{err: domain.InvalidInput("All fields are required.")}
		c := NewEventController(testLogger, svc)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/events/"+testEventID, strings.NewReader(`{"eventDate":""}`))
		c.UpdateEvent(rr, withEventID(req, testEventID))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.NotNil(t, svc.lastPatch.EventDate)
		assert.True(t, svc.lastPatch.EventDate.IsZero())
	})

	t.Run("not found", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{err: domain.ErrNotFound})
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/events/"+testEventID, strings.NewReader(`{"title":"x"}`))
		c.UpdateEvent(rr, withEventID(req, testEventID))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Event not found.", decodeError(t, rr).Message)
	})
}

func TestEventController_DeleteEvent(t *testing.T) {
	svc := &fakeEventService{event: sampleEvent()}
	c := NewEventController(testLogger, svc)
	rr := httptest.NewRecorder()
	c.DeleteEvent(rr, withEventID(httptest.NewRequest(http.MethodDelete, "/api/events/"+testEventID, nil), testEventID))

	require.Equal(t, http.StatusOK, rr.Code)
	var body DeleteEventResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, DeleteEventResponse{Message: "Event deleted successfully", EventID: testEventID}, body)

	c = NewEventController(testLogger, &fakeEventService{err: domain.InvalidID("invalid-id")})
	rr = httptest.NewRecorder()
	c.DeleteEvent(rr, withEventID(httptest.NewRequest(http.MethodDelete, "/api/events/invalid-id", nil), "invalid-id"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
