package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventregistration/internal/adapters/apiclient"
	"eventregistration/internal/domain"
	"eventregistration/internal/validation"
)

const testEventID = "665f1b2c3d4e5f6a7b8c9d0e"

type fakeAPI struct {
	page         *domain.EventPage
	event        *domain.Event
	participants []*domain.Participant
	err          error
	registerErr  error

	lastList     apiclient.ListParams
	lastSearch   string
	lastRegister apiclient.RegisterRequest
	registered   int
}

func (f *fakeAPI) ListEvents(_ context.Context, params apiclient.ListParams) (*domain.EventPage, error) {
	f.lastList = params
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeAPI) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeAPI) GetParticipants(_ context.Context, eventID, search string) ([]*domain.Participant, error) {
	f.lastSearch = search
	if f.err != nil {
		return nil, f.err
	}
	return f.participants, nil
}

func (f *fakeAPI) RegisterParticipant(_ context.Context, eventID string, req apiclient.RegisterRequest) (*domain.Participant, error) {
	f.lastRegister = req
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered++
	return &domain.Participant{ID: "p1", EventID: eventID, FullName: req.FullName, Email: req.Email}, nil
}

func newTestHandler(t *testing.T, api EventsAPI) http.Handler {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	h, err := New(api, validation.NewWithClock(now), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return h.Routes()
}

func serve(t *testing.T, handler http.Handler, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

func TestBoard(t *testing.T) {
	event := &domain.Event{
		ID:        testEventID,
		Title:     "Go Meetup",
		Organizer: "Gophers",
		EventDate: time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC),
	}

	t.Run("lists events with paging links", func(t *testing.T) {
		api := &fakeAPI{page: &domain.EventPage{Events: []*domain.Event{event}, CurrentPage: 2, TotalPages: 3, TotalEvents: 17}}
		rec, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/?page=2&sortField=organizer", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, apiclient.ListParams{Page: 2, Limit: BoardPageSize, SortField: "organizer"}, api.lastList)
		assert.Contains(t, body, "Discover Events")
		assert.Contains(t, body, "Go Meetup")
		assert.Contains(t, body, "1 July 2026, 18:00")
		assert.Contains(t, body, `href="/register/`+testEventID+`"`)
		assert.Contains(t, body, `href="/participants/`+testEventID+`"`)
		assert.Contains(t, body, `href="/?page=1&amp;sortField=organizer"`)
		assert.Contains(t, body, `href="/?page=3&amp;sortField=organizer"`)
		assert.Contains(t, body, `<option value="organizer" selected>`)
		assert.NotContains(t, body, "Registration successful!")
	})

	t.Run("unknown sort and page fall back to defaults", func(t *testing.T) {
		api := &fakeAPI{page: &domain.EventPage{Events: []*domain.Event{}, CurrentPage: 1}}
		rec, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/?page=-4&sortField=createdAt", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, api.lastList.Page)
		assert.Equal(t, "title", api.lastList.SortField)
		assert.Contains(t, body, "No events yet.")
	})

	t.Run("shows registration notice", func(t *testing.T) {
		api := &fakeAPI{page: &domain.EventPage{Events: []*domain.Event{event}, CurrentPage: 1, TotalPages: 1}}
		_, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/?registered=1", nil))
		assert.Contains(t, body, "Registration successful!")
	})

	t.Run("api failure renders error page", func(t *testing.T) {
		api := &fakeAPI{err: &apiclient.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}}
		rec, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, body, "Could not load events.")
	})
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func validForm() url.Values {
	return url.Values{
		"fullName": {"Jane Doe"},
		"email":    {"jane@example.com"},
		"dob":      {"1990-04-12"},
		"referral": {"Friends"},
	}
}

func TestRegister(t *testing.T) {
	t.Run("form renders", func(t *testing.T) {
		rec, body := serve(t, newTestHandler(t, &fakeAPI{}), httptest.NewRequest(http.MethodGet, "/register/"+testEventID, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "Full Name")
		assert.Contains(t, body, "Email Address")
		assert.Contains(t, body, "Date of Birth")
		assert.Contains(t, body, "Where did you hear about this event?")
		assert.Contains(t, body, `action="/register/`+testEventID+`"`)
		for _, source := range validation.ReferralSources {
			assert.Contains(t, body, `value="`+source+`"`)
		}
	})

	t.Run("valid form registers and redirects", func(t *testing.T) {
		api := &fakeAPI{}
		rec, _ := serve(t, newTestHandler(t, api), postForm("/register/"+testEventID, validForm()))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?registered=1", rec.Header().Get("Location"))
		assert.Equal(t, 1, api.registered)
		assert.Equal(t, apiclient.RegisterRequest{FullName: "Jane Doe", Email: "jane@example.com", DOB: "1990-04-12", Referral: "Friends"}, api.lastRegister)
	})

	t.Run("invalid form re-renders with messages", func(t *testing.T) {
		api := &fakeAPI{}
		form := url.Values{"fullName": {"Jo"}, "email": {"not-an-email"}, "dob": {"2030-01-01"}}
		rec, body := serve(t, newTestHandler(t, api), postForm("/register/"+testEventID, form))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Zero(t, api.registered)
		assert.Contains(t, body, "Full name must be at least 3 characters")
		assert.Contains(t, body, "Email is invalid")
		assert.Contains(t, body, "Date of birth cannot be in the future")
		assert.Contains(t, body, "Please select a source")
		assert.Contains(t, body, `value="not-an-email"`)
	})

	t.Run("api rejection shows its message", func(t *testing.T) {
		api := &fakeAPI{registerErr: &apiclient.APIError{StatusCode: http.StatusBadRequest, Message: "Invalid email format."}}
		rec, body := serve(t, newTestHandler(t, api), postForm("/register/"+testEventID, validForm()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body, "Invalid email format.")
	})

	t.Run("api failure shows generic message", func(t *testing.T) {
		api := &fakeAPI{registerErr: &apiclient.APIError{StatusCode: http.StatusInternalServerError, Message: "Internal server error."}}
		rec, body := serve(t, newTestHandler(t, api), postForm("/register/"+testEventID, validForm()))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, body, "Failed to register. Please try again.")
	})
}

func TestParticipants(t *testing.T) {
	event := &domain.Event{ID: testEventID, Title: "Go Meetup"}

	t.Run("lists participants", func(t *testing.T) {
		api := &fakeAPI{
			event: event,
			participants: []*domain.Participant{
				{ID: "p1", FullName: "Jane Doe", Email: "jane@example.com", DOB: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC), Referral: "Friends"},
				{ID: "p2", FullName: "John Roe", Email: "john@example.com"},
			},
		}
		rec, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/participants/"+testEventID, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "Event Participants")
		assert.Contains(t, body, `"Go Meetup"`)
		assert.Contains(t, body, "2 participants")
		assert.Contains(t, body, "Jane Doe")
		assert.Contains(t, body, "john@example.com")
		assert.Contains(t, body, "Born 12 April 1990")
		assert.Contains(t, body, "Back to Events")
	})

	t.Run("search is forwarded", func(t *testing.T) {
		api := &fakeAPI{event: event, participants: []*domain.Participant{{ID: "p1", FullName: "Jane Doe"}}}
		_, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/participants/"+testEventID+"?search=jane", nil))

		assert.Equal(t, "jane", api.lastSearch)
		assert.Contains(t, body, "1 participant")
		assert.Contains(t, body, `value="jane"`)
	})

	t.Run("empty states", func(t *testing.T) {
		api := &fakeAPI{event: event, participants: []*domain.Participant{}}
		handler := newTestHandler(t, api)

		_, body := serve(t, handler, httptest.NewRequest(http.MethodGet, "/participants/"+testEventID, nil))
		assert.Contains(t, body, "No participants found")
		assert.Contains(t, body, "Be the first to register for this event!")

		_, body = serve(t, handler, httptest.NewRequest(http.MethodGet, "/participants/"+testEventID+"?search=zed", nil))
		assert.Contains(t, body, "Try adjusting your search criteria")
	})

	t.Run("missing event renders not found", func(t *testing.T) {
		api := &fakeAPI{err: &apiclient.APIError{StatusCode: http.StatusNotFound, Message: "Event not found."}}
		rec, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/participants/"+testEventID, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, body, "Oops! Page not found.")
	})

	t.Run("api failure renders error page", func(t *testing.T) {
		api := &fakeAPI{err: &apiclient.APIError{StatusCode: http.StatusInternalServerError, Message: "Internal server error."}}
		rec, body := serve(t, newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/participants/"+testEventID, nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, body, "Failed to fetch participants.")
	})
}

func TestNotFound(t *testing.T) {
	rec, body := serve(t, newTestHandler(t, &fakeAPI{}), httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body, "404")
	assert.Contains(t, body, "Go to Home")
}

func TestProtected(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	api := &fakeAPI{}
	h, err := New(api, validation.NewWithClock(now), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	handler := h.Protected([]byte("12345678901234567890123456789012"), false)

	t.Run("form carries a token and sets the cookie", func(t *testing.T) {
		rec, body := serve(t, handler, httptest.NewRequest(http.MethodGet, "http://localhost/register/"+testEventID, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, `name="gorilla.csrf.Token"`)
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == "_gorilla_csrf" {
				found = true
			}
		}
		assert.True(t, found, "csrf cookie should be set")
	})

	t.Run("post without token is rejected", func(t *testing.T) {
		rec, body := serve(t, handler, postForm("http://localhost/register/"+testEventID, validForm()))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, body, "Your form has expired.")
		assert.Zero(t, api.registered)
	})
}
