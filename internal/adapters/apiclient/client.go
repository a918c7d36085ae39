// Package apiclient is a typed HTTP client for the event registration API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eventregistration/internal/domain"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ListParams selects a page of the event board.
type ListParams struct {
	Page      int
	Limit     int
	SortField string
	SortOrder string
}

// RegisterRequest is the registration payload. DOB is sent as entered.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	DOB      string `json:"dob"`
	Referral string `json:"referral,omitempty"`
}

// Client calls the API rooted at baseURL, e.g. "http://localhost:5000/api".
type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a Client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: httpClient}
}

func (c *Client) ListEvents(ctx context.Context, params ListParams) (*domain.EventPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.SortField != "" {
		q.Set("sortField", params.SortField)
	}
	if params.SortOrder != "" {
		q.Set("sortOrder", params.SortOrder)
	}
	var page domain.EventPage
	if err := c.do(ctx, http.MethodGet, "/events", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var event domain.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) GetParticipants(ctx context.Context, eventID, search string) ([]*domain.Participant, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	participants := []*domain.Participant{}
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID)+"/participants", q, nil, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (c *Client) RegisterParticipant(ctx context.Context, eventID string, req RegisterRequest) (*domain.Participant, error) {
	var participant domain.Participant
	if err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/register", nil, req, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode api response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
