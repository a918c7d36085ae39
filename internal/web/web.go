// Package web serves the browser views of the event board. Pages are rendered on the
// server and all data comes from the API through EventsAPI.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"golang.org/x/sync/errgroup"

	"eventregistration/internal/adapters/apiclient"
	"eventregistration/internal/domain"
	"eventregistration/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// BoardPageSize is the number of events per board page.
const BoardPageSize = 8

// EventsAPI is the part of the API the views use.
type EventsAPI interface {
	ListEvents(ctx context.Context, params apiclient.ListParams) (*domain.EventPage, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	GetParticipants(ctx context.Context, eventID, search string) ([]*domain.Participant, error)
	RegisterParticipant(ctx context.Context, eventID string, req apiclient.RegisterRequest) (*domain.Participant, error)
}

type sortOption struct {
	Value string
	Label string
}

var boardSortOptions = []sortOption{
	{Value: "title", Label: "Sort by Title"},
	{Value: "eventDate", Label: "Sort by Date"},
	{Value: "organizer", Label: "Sort by Organizer"},
}

const defaultBoardSort = "title"

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2 January 2006, 15:04")
	},
	"formatDay": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2 January 2006")
	},
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

// Handler renders the board, registration and participants pages.
type Handler struct {
	api       EventsAPI
	validator *validation.Validator
	logger    *slog.Logger
	pages     map[string]*template.Template
}

// New parses the page templates.
func New(api EventsAPI, v *validation.Validator, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pages := make(map[string]*template.Template)
	for _, name := range []string{"board", "register", "participants", "notfound", "error"} {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &Handler{api: api, validator: v, logger: logger, pages: pages}, nil
}

// Routes returns the view routes.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Board)
	mux.HandleFunc("GET /register/{eventId}", h.RegisterForm)
	mux.HandleFunc("POST /register/{eventId}", h.Register)
	mux.HandleFunc("GET /participants/{eventId}", h.Participants)
	mux.HandleFunc("/", h.NotFound)
	return mux
}

type boardData struct {
	Events      []*domain.Event
	CurrentPage int
	TotalPages  int
	Pages       []int
	SortField   string
	SortOptions []sortOption
	Registered  bool
}

func (d boardData) PrevPage() int { return d.CurrentPage - 1 }
func (d boardData) NextPage() int { return d.CurrentPage + 1 }
func (d boardData) HasPrev() bool { return d.CurrentPage > 1 }
func (d boardData) HasNext() bool { return d.CurrentPage < d.TotalPages }

// Board handles GET /?page=&sortField=.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	sortField := q.Get("sortField")
	if !isBoardSort(sortField) {
		sortField = defaultBoardSort
	}

	result, err := h.api.ListEvents(r.Context(), apiclient.ListParams{Page: page, Limit: BoardPageSize, SortField: sortField})
	if err != nil {
		h.renderError(w, r, err, "Could not load events.")
		return
	}
	data := boardData{
		Events:      result.Events,
		CurrentPage: page,
		TotalPages:  result.TotalPages,
		SortField:   sortField,
		SortOptions: boardSortOptions,
		Registered:  q.Get("registered") == "1",
	}
	for i := 1; i <= result.TotalPages; i++ {
		data.Pages = append(data.Pages, i)
	}
	h.render(w, r, http.StatusOK, "board", data)
}

func isBoardSort(field string) bool {
	for _, o := range boardSortOptions {
		if o.Value == field {
			return true
		}
	}
	return false
}

type registerData struct {
	CSRFField template.HTML
	EventID   string
	Form      validation.RegistrationForm
	Errors    map[string]string
	Referrals []string
	Failure   string
}

// RegisterForm handles GET /register/{eventId}.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", registerData{
		CSRFField: csrf.TemplateField(r),
		EventID:   r.PathValue("eventId"),
		Referrals: validation.ReferralSources,
	})
}

// Register handles POST /register/{eventId}. Invalid input re-renders the form with
// per-field messages; success redirects to the board.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := validation.RegistrationForm{
		FullName: r.PostForm.Get("fullName"),
		Email:    r.PostForm.Get("email"),
		DOB:      r.PostForm.Get("dob"),
		Referral: r.PostForm.Get("referral"),
	}
	data := registerData{
		CSRFField: csrf.TemplateField(r),
		EventID:   eventID,
		Form:      form,
		Referrals: validation.ReferralSources,
	}
	if errs := h.validator.RegistrationForm(form); errs != nil {
		data.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "register", data)
		return
	}

	_, err := h.api.RegisterParticipant(r.Context(), eventID, apiclient.RegisterRequest{
		FullName: form.FullName,
		Email:    form.Email,
		DOB:      form.DOB,
		Referral: form.Referral,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "registration failed", "event_id", eventID, "err", err)
		data.Failure = "Failed to register. Please try again."
		status := http.StatusBadGateway
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			status = http.StatusBadRequest
			data.Failure = apiErr.Message
		}
		h.render(w, r, status, "register", data)
		return
	}
	http.Redirect(w, r, "/?registered=1", http.StatusSeeOther)
}

type participantsData struct {
	Event        *domain.Event
	Participants []*domain.Participant
	Search       string
}

// Participants handles GET /participants/{eventId}?search=. The event and its
// participants are fetched concurrently.
func (h *Handler) Participants(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	search := r.URL.Query().Get("search")

	var data participantsData
	data.Search = search
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		event, err := h.api.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		data.Event = event
		return nil
	})
	g.Go(func() error {
		participants, err := h.api.GetParticipants(ctx, eventID, search)
		if err != nil {
			return err
		}
		data.Participants = participants
		return nil
	})
	if err := g.Wait(); err != nil {
		var apiErr *apiclient.APIError
		if apiclient.IsNotFound(err) || (errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest) {
			h.NotFound(w, r)
			return
		}
		h.renderError(w, r, err, "Failed to fetch participants.")
		return
	}
	h.render(w, r, http.StatusOK, "participants", data)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", nil)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	h.render(w, r, http.StatusBadGateway, "error", message)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.ErrorContext(r.Context(), "render failed", "page", page, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
