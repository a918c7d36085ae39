package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/domain"
	"eventregistration/internal/metrics"
	"eventregistration/internal/validation"
)

// RegisterParticipantRequest is the request body for POST /api/events/{eventId}/register.
type RegisterParticipantRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	DOB      string `json:"dob"`
	Referral string `json:"referral"`
}

func (req RegisterParticipantRequest) toInput() (domain.NewParticipantInput, error) {
	in := domain.NewParticipantInput{
		FullName: req.FullName,
		Email:    req.Email,
		Referral: req.Referral,
	}
	// With any required field missing the date stays zero so the required
	// message wins over a date format error.
	if req.FullName != "" && req.Email != "" && req.DOB != "" {
		d, err := validation.ParseDate(req.DOB)
		if err != nil {
			return in, err
		}
		in.DOB = d
	}
	return in, nil
}

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewParticipantController(logger *slog.Logger, svc domain.EventService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// Register handles POST /api/events/{eventId}/register.
func (c *ParticipantController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterParticipantRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	participant, err := c.Service.RegisterParticipant(r.Context(), r.PathValue("eventId"), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.RegistrationsTotal.Inc()
	helpers.WriteJSON(w, http.StatusCreated, participant)
}

// ListParticipants handles GET /api/events/{eventId}/participants?search=.
func (c *ParticipantController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := c.Service.GetParticipants(r.Context(), r.PathValue("eventId"), r.URL.Query().Get("search"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEventIDFormat) {
			helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, participants)
}
